package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dreytengan/futurepaths/internal/artifact"
	"github.com/dreytengan/futurepaths/internal/config"
	"github.com/dreytengan/futurepaths/internal/dataset"
	"github.com/dreytengan/futurepaths/internal/domain"
	"github.com/dreytengan/futurepaths/internal/embedding"
	"github.com/dreytengan/futurepaths/internal/embedding/openai"
	"github.com/dreytengan/futurepaths/internal/embedding/tfidf"
	"github.com/dreytengan/futurepaths/internal/kv"
	"github.com/dreytengan/futurepaths/internal/predictor"
	"github.com/dreytengan/futurepaths/internal/resume"
	"github.com/dreytengan/futurepaths/internal/service"
	"github.com/dreytengan/futurepaths/internal/summarizer"
	"github.com/dreytengan/futurepaths/internal/transform"
	"github.com/dreytengan/futurepaths/internal/vectorstore"
	"github.com/dreytengan/futurepaths/internal/vectorstore/memory"
	"github.com/dreytengan/futurepaths/internal/vectorstore/qdrant"
)

// env holds the components a command needs and releases them on close.
type env struct {
	*app
	embedder domain.Embedder
	store    artifact.FileStore
	closers  []func() error
}

func (a *app) open() (*env, error) {
	e := &env{app: a}
	store, err := artifact.New(a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("artifact store: %w", err)
	}
	e.store = store
	emb, err := e.newEmbedder()
	if err != nil {
		e.close()
		return nil, err
	}
	e.embedder = emb
	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Warn("close", "error", err)
		}
	}
	e.closers = nil
}

func (e *env) newEmbedder() (domain.Embedder, error) {
	cfg := e.cfg.Embedder
	var emb domain.Embedder
	switch cfg.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		oc := cfg.OpenAI
		client, err := openai.NewClient(openai.Config{
			BaseURL:    oc.BaseURL,
			APIKeyEnv:  oc.APIKeyEnv,
			Model:      oc.Model,
			Dimensions: oc.Dimensions,
			Timeout:    time.Duration(oc.TimeoutSecs) * time.Second,
			BatchSize:  oc.BatchSize,
			MaxRetries: oc.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
	if !cfg.Cache.Enabled {
		return emb, nil
	}
	db, err := kv.NewBadger(kv.BadgerOptions{Dir: cfg.Cache.Dir, InMemory: cfg.Cache.InMemory, Logger: e.logger})
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}
	e.closers = append(e.closers, db.Close)
	return embedding.NewCached(emb, db, e.logger), nil
}

func (e *env) newIndex() (vectorstore.Storage, error) {
	switch e.cfg.VectorStore.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		qc := e.cfg.VectorStore.Qdrant
		apiKey := ""
		if qc.APIKeyEnv != "" {
			apiKey = os.Getenv(qc.APIKeyEnv)
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        qc.URL,
			APIKey:     apiKey,
			Collection: qc.Collection,
			Timeout:    time.Duration(qc.TimeoutSecs) * time.Second,
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", e.cfg.VectorStore.Type)
	}
}

func (e *env) method() (transform.Method, string, error) {
	m, err := transform.ParseMethod(e.cfg.Model.TransformationMethod)
	if err != nil {
		return "", "", err
	}
	path := e.cfg.Model.TransformationPath
	if m == transform.MethodNeural {
		path = e.cfg.Model.NeuralPath
	}
	return m, path, nil
}

func (e *env) loadPredictor(ctx context.Context) (*predictor.LabelPredictor, error) {
	m, path, err := e.method()
	if err != nil {
		return nil, err
	}
	idx, err := e.newIndex()
	if err != nil {
		return nil, err
	}
	return predictor.Load(ctx, e.embedder, e.store, predictor.LoadOptions{
		LabelSpacePath:     e.cfg.Model.LabelSpacePath,
		Method:             m,
		TransformationPath: path,
		Index:              idx,
		Logger:             e.logger,
	})
}

func (e *env) careerService(ctx context.Context) (*service.CareerService, error) {
	p, err := e.loadPredictor(ctx)
	if err != nil {
		return nil, err
	}
	return service.NewCareerService(p, p.Space().Labels(), e.logger), nil
}

func (e *env) resumeParser() *resume.Parser {
	var sum domain.Summarizer
	if e.cfg.Summarizer.Type == "frequency" {
		sum = summarizer.NewFrequencySummarizer()
	}
	return &resume.Parser{Summarizer: sum, MaxSentences: e.cfg.Summarizer.MaxSentences, Logger: e.logger}
}

// pairs reads the pair file, or derives pairs from career histories when
// no file is given.
func (e *env) pairs(path string) ([]domain.Pair, error) {
	d := e.cfg.Data
	switch {
	case path != "":
		return dataset.LoadPairs(path)
	case d.Histories != "":
		hs, err := dataset.LoadHistories(d.Histories)
		if err != nil {
			return nil, err
		}
		return dataset.Pairs(hs, dataset.Options{MinusLast: d.MinusLast, AllSubspans: d.AllSubspans}), nil
	default:
		return nil, fmt.Errorf("%w: data.train_pairs or data.histories", config.ErrMissingKey)
	}
}

var errNoLabelSpace = errors.New("label space not built; run build-index first")

// prepareFromLabelSpace readies the embedder over the stored labels so
// training sees the same vocabulary as prediction.
func (e *env) prepareFromLabelSpace(ctx context.Context) error {
	ok, err := e.store.Exists(ctx, e.cfg.Model.LabelSpacePath)
	if err != nil {
		return err
	}
	if !ok {
		return errNoLabelSpace
	}
	var ls artifact.LabelSpace
	if err := artifact.ReadMsgpack(ctx, e.store, e.cfg.Model.LabelSpacePath, &ls); err != nil {
		return err
	}
	return e.embedder.Prepare(ls.Labels)
}
