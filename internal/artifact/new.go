package artifact

import (
	"fmt"
	"os"

	"github.com/dreytengan/futurepaths/internal/config"
)

// New builds the FileStore selected by the storage config.
func New(cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocal(cfg.Local.Dir)
	case "s3":
		if cfg.S3 == nil {
			return nil, fmt.Errorf("%w: storage.s3", config.ErrMissingKey)
		}
		client := NewS3Client(S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
			AccessKey:    os.Getenv(cfg.S3.AccessKeyEnv),
			SecretKey:    os.Getenv(cfg.S3.SecretKeyEnv),
		})
		return NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Type)
	}
}
