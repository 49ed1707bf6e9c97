package uploader

import (
	"context"

	"banditlab/internal/config"
)

type Uploader interface {
	Enabled() bool
	UploadDir(ctx context.Context, dir string) (string, error)
}

type NoopUploader struct{}

func (n NoopUploader) Enabled() bool {
	return false
}

func (n NoopUploader) UploadDir(ctx context.Context, dir string) (string, error) {
	return "", nil
}

// FromConfig picks the configured storage backend. S3 wins when both are
// enabled; with neither enabled runs stay local.
func FromConfig(cfg config.StorageConfig) (Uploader, error) {
	switch {
	case cfg.S3.Enabled:
		return NewS3(cfg.S3)
	case cfg.GCS.Enabled:
		return NewGCS(cfg.GCS)
	}
	return NoopUploader{}, nil
}
