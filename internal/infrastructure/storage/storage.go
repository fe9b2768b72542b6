// Package storage persists uploaded resumes. Two backends exist: local
// disk (the default) and MinIO object storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"jobbee-api/internal/config"
)

// ResumeStore defines common resume operations across backends.
type ResumeStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, name string) error
}

// New constructs the backend selected by configuration.
func New(cfg *config.Config) (ResumeStore, error) {
	switch cfg.Upload.Backend {
	case "", "local":
		return NewLocalStore(cfg.Upload.Path)
	case "minio":
		store, err := NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to ensure resume bucket: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown upload backend: %q", cfg.Upload.Backend)
	}
}
