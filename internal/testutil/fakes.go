// Package testutil holds in-memory doubles for the infrastructure
// interfaces used by services: cache, queue, storage and transactions.
package testutil

import (
	"context"
	"encoding/json"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"bookstore-catalog/internal/infrastructure/storage"
	"bookstore-catalog/pkg/database"
)

// Transactor runs fn with a nil pgx.Tx. Repository fakes ignore the tx.
type Transactor struct {
	Calls int
}

var _ database.Transactor = (*Transactor)(nil)

func (t *Transactor) WithTransaction(_ context.Context, fn database.TxFunc) error {
	t.Calls++
	return fn(pgx.Tx(nil))
}

// Cache is a map-backed cache.Cache.
type Cache struct {
	mu      sync.Mutex
	Items   map[string][]byte
	GetErr  error
	Deleted []string
}

func NewCache() *Cache {
	return &Cache{Items: make(map[string][]byte)}
}

func (c *Cache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.GetErr != nil {
		return false, c.GetErr
	}
	raw, ok := c.Items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *Cache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Items[key] = raw
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.Items, k)
		c.Deleted = append(c.Deleted, k)
	}
	return nil
}

func (c *Cache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.Items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.Items, k)
		}
	}
	c.Deleted = append(c.Deleted, pattern)
	return nil
}

func (c *Cache) Ping(context.Context) error { return nil }

// Queue records enqueued media deletions.
type Queue struct {
	mu      sync.Mutex
	Deletes []string
}

func (q *Queue) EnqueueMediaDelete(_ context.Context, p string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Deletes = append(q.Deletes, p)
	return nil
}

func (q *Queue) Close() error { return nil }

// Storage is an in-memory storage.Storage. Keys listed in FailDelete make
// Delete return DeleteErr.
type Storage struct {
	mu         sync.Mutex
	Files      map[string][]byte
	Modified   map[string]time.Time
	FailDelete map[string]bool
	DeleteErr  error
	PutErr     error
}

var _ storage.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{
		Files:      make(map[string][]byte),
		Modified:   make(map[string]time.Time),
		FailDelete: make(map[string]bool),
	}
}

func (s *Storage) Put(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.PutErr != nil {
		return s.PutErr
	}
	s.Files[key] = data
	s.Modified[key] = time.Now()
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete[key] {
		return s.DeleteErr
	}
	delete(s.Files, key)
	delete(s.Modified, key)
	return nil
}

func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Files[key]
	return ok, nil
}

func (s *Storage) List(_ context.Context, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	var out []storage.Object
	for k, v := range s.Files {
		if strings.HasPrefix(k, prefix) {
			out = append(out, storage.Object{Key: k, Size: int64(len(v)), LastModified: s.Modified[k]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Storage) URL(key string) string {
	return "http://media.test/" + key
}

// Has reports whether key is stored.
func (s *Storage) Has(key string) bool {
	ok, _ := s.Exists(context.Background(), key)
	return ok
}

// Keys returns every stored key under prefix.
func (s *Storage) Keys(prefix string) []string {
	objects, _ := s.List(context.Background(), prefix)
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	return keys
}
