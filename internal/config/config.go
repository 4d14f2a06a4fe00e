package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrMissingKey is returned when a required configuration value is empty.
var ErrMissingKey = errors.New("config: missing key")

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	BatchSize   int    `yaml:"batch_size"`
	MaxRetries  int    `yaml:"max_retries"`
}

// CacheConfig configures the on-disk embedding cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`
	InMemory bool   `yaml:"in_memory"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
	Cache  CacheConfig           `yaml:"cache"`
}

// VectorStoreConfig selects and configures the similarity index implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant collection.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// StorageConfig selects where artifacts are read from and written to.
type StorageConfig struct {
	Type  string      `yaml:"type"`
	Local LocalConfig `yaml:"local"`
	S3    *S3Config   `yaml:"s3,omitempty"`
}

// LocalConfig roots the local artifact store.
type LocalConfig struct {
	Dir string `yaml:"dir"`
}

// S3Config configures an S3-compatible artifact store.
type S3Config struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
	AccessKeyEnv string `yaml:"access_key_env"`
	SecretKeyEnv string `yaml:"secret_key_env"`
}

// ModelConfig names the predictor artifacts and the transformation variant.
type ModelConfig struct {
	TransformationMethod string `yaml:"transformation_method"`
	TransformationPath   string `yaml:"transformation_path"`
	NeuralPath           string `yaml:"neural_path"`
	LabelSpacePath       string `yaml:"label_space_path"`
	TopK                 int    `yaml:"top_k"`
}

// DataConfig points at the local pair and history files.
type DataConfig struct {
	Histories     string `yaml:"histories"`
	TrainPairs    string `yaml:"train_pairs"`
	TestPairs     string `yaml:"test_pairs"`
	MinusLast     bool   `yaml:"minus_last"`
	AllSubspans   bool   `yaml:"all_subspans"`
	OnlyDifferent bool   `yaml:"only_different"`
}

// OutputConfig names the files produced by training and evaluation.
type OutputConfig struct {
	ScoresPath      string `yaml:"scores_path"`
	PredictionsPath string `yaml:"predictions_path"`
	ErrorsPath      string `yaml:"errors_path"`
}

// ServeConfig configures the HTTP API.
type ServeConfig struct {
	Addr           string `yaml:"addr"`
	TopK           int    `yaml:"top_k"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// SummarizerConfig selects and configures the summarizer.
type SummarizerConfig struct {
	Type         string `yaml:"type"`
	MaxSentences int    `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	LogLevel    string            `yaml:"log_level"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Storage     StorageConfig     `yaml:"storage"`
	Model       ModelConfig       `yaml:"model"`
	Data        DataConfig        `yaml:"data"`
	Output      OutputConfig      `yaml:"output"`
	Serve       ServeConfig       `yaml:"serve"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Load reads a config from a specified path and fills unset values with
// defaults. A missing file is an error wrapping os.ErrNotExist.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	found, err := decodeInto(path, cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadMerged reads the base file and then decodes the override file on top of it.
// Keys present in the override replace those of the base; nested mappings merge.
// Both files must exist.
func LoadMerged(basePath, overridePath string) (*AppConfig, error) {
	cfg := &AppConfig{}
	for _, p := range []string{basePath, overridePath} {
		if p == "" {
			continue
		}
		found, err := decodeInto(p, cfg)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("config file %s: %w", p, os.ErrNotExist)
		}
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/futurepaths/config.yaml.
// If neither exists, it writes defaults to ~/.config/futurepaths/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Require returns ErrMissingKey naming the first empty value among the given pairs.
func Require(kv ...string) error {
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			return fmt.Errorf("%w: %s", ErrMissingKey, kv[i])
		}
	}
	return nil
}

// Validate rejects unknown implementation types.
func (c *AppConfig) Validate() error {
	switch c.Embedder.Type {
	case "tfidf", "openai":
	default:
		return fmt.Errorf("unknown embedder: %s", c.Embedder.Type)
	}
	if c.Embedder.Type == "openai" && c.Embedder.OpenAI == nil {
		return fmt.Errorf("%w: embedder.openai", ErrMissingKey)
	}
	switch c.VectorStore.Type {
	case "memory":
	case "qdrant":
		if c.VectorStore.Qdrant == nil {
			return fmt.Errorf("%w: vector_store.qdrant", ErrMissingKey)
		}
	default:
		return fmt.Errorf("unknown vector store: %s", c.VectorStore.Type)
	}
	switch c.Storage.Type {
	case "local":
	case "s3":
		if c.Storage.S3 == nil || c.Storage.S3.Bucket == "" {
			return fmt.Errorf("%w: storage.s3.bucket", ErrMissingKey)
		}
	default:
		return fmt.Errorf("unknown storage: %s", c.Storage.Type)
	}
	switch c.Model.TransformationMethod {
	case "none", "linear", "neural":
	default:
		return fmt.Errorf("unknown transformation method: %s", c.Model.TransformationMethod)
	}
	return nil
}

func decodeInto(path string, cfg *AppConfig) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return true, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "futurepaths", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "tfidf"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
		if cfg.Embedder.OpenAI.BatchSize == 0 {
			cfg.Embedder.OpenAI.BatchSize = 256
		}
	}
	if cfg.Embedder.Cache.Enabled && cfg.Embedder.Cache.Dir == "" && !cfg.Embedder.Cache.InMemory {
		cfg.Embedder.Cache.Dir = filepath.Join("artifacts", "embedding-cache")
	}
	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "labels"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = "local"
	}
	if cfg.Storage.Local.Dir == "" {
		cfg.Storage.Local.Dir = "artifacts"
	}
	if cfg.Storage.Type == "s3" && cfg.Storage.S3 != nil {
		if cfg.Storage.S3.Region == "" {
			cfg.Storage.S3.Region = "us-east-1"
		}
		if cfg.Storage.S3.AccessKeyEnv == "" {
			cfg.Storage.S3.AccessKeyEnv = "AWS_ACCESS_KEY_ID"
		}
		if cfg.Storage.S3.SecretKeyEnv == "" {
			cfg.Storage.S3.SecretKeyEnv = "AWS_SECRET_ACCESS_KEY"
		}
	}
	if cfg.Model.TransformationMethod == "" {
		cfg.Model.TransformationMethod = "none"
	}
	if cfg.Model.TransformationPath == "" {
		cfg.Model.TransformationPath = "transformation.msgpack"
	}
	if cfg.Model.NeuralPath == "" {
		cfg.Model.NeuralPath = "mlp.msgpack"
	}
	if cfg.Model.LabelSpacePath == "" {
		cfg.Model.LabelSpacePath = "labelspace.msgpack"
	}
	if cfg.Model.TopK == 0 {
		cfg.Model.TopK = 10
	}
	if cfg.Output.ScoresPath == "" {
		cfg.Output.ScoresPath = "results/scores"
	}
	if cfg.Output.PredictionsPath == "" {
		cfg.Output.PredictionsPath = "results/predictions"
	}
	if cfg.Output.ErrorsPath == "" {
		cfg.Output.ErrorsPath = "results/linear_transformation_errors.json"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = ":8080"
	}
	if cfg.Serve.TopK == 0 {
		cfg.Serve.TopK = 3
	}
	if cfg.Serve.MaxUploadBytes == 0 {
		cfg.Serve.MaxUploadBytes = 10 << 20
	}
	if cfg.Summarizer.Type == "" {
		cfg.Summarizer.Type = "frequency"
	}
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
}
