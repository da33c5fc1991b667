package storage

import (
	"context"
	"fmt"

	"bookstore-catalog/internal/config"
)

// New builds the backend selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case "minio":
		return NewMinIOStorage(ctx, cfg.MinIO)
	case "local":
		return NewLocalStorage(cfg.Storage.LocalRoot, cfg.Storage.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
