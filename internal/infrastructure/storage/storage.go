// Package storage persists uploaded catalog media (cover images, preview
// PDFs) on MinIO or on the local disk.
package storage

import (
	"context"
	"time"
)

// Object describes a stored file as reported by List.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is a flat key/value blob backend. Keys use forward slashes
// ("books/covers/<uuid>.jpg") on every backend.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Delete returns nil when the key does not exist.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]Object, error)
	URL(key string) string
}
