package storage

import (
	"context"
	"fmt"
	"path"

	"github.com/google/uuid"
)

const (
	BucketCovers   = "books/covers"
	BucketPreviews = "books/previews"
)

// MediaStore assigns storage paths to uploads and releases them again.
type MediaStore struct {
	backend Storage
}

func NewMediaStore(backend Storage) *MediaStore {
	return &MediaStore{backend: backend}
}

// Store saves the upload as <bucket>/<uuid><ext> and returns that path.
// The original file name is never part of the stored path.
func (m *MediaStore) Store(ctx context.Context, upload *Upload, bucket string) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", fmt.Errorf("empty upload")
	}

	key := path.Join(bucket, uuid.NewString()+upload.Ext())
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := m.backend.Put(ctx, key, upload.Data, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes the file at p. Empty paths and missing files are ignored.
func (m *MediaStore) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	return m.backend.Delete(ctx, p)
}

func (m *MediaStore) Exists(ctx context.Context, p string) (bool, error) {
	if p == "" {
		return false, nil
	}
	return m.backend.Exists(ctx, p)
}

// List returns every stored object under bucket.
func (m *MediaStore) List(ctx context.Context, bucket string) ([]Object, error) {
	return m.backend.List(ctx, bucket)
}

// URL returns the public URL of p, or "" when p is empty.
func (m *MediaStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return m.backend.URL(p)
}
