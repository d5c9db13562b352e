package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Qwwn/capstone-sangar/internal/storage"
)

type objectEntry struct {
	Key         string
	ContentType string
	Size        int64
	URL         string
}

// Storage implements storage.ObjectStorage using an in-memory map. It stores
// metadata only, which is enough for tests and local development.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]*objectEntry
	baseURL string
}

// New creates a new in-memory object store.
func New(baseURL string) *Storage {
	return &Storage{
		objects: make(map[string]*objectEntry),
		baseURL: baseURL,
	}
}

// Upload stores object metadata in memory and returns the public URL.
func (s *Storage) Upload(_ context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("%s/%s", s.baseURL, input.Key)

	s.objects[input.Key] = &objectEntry{
		Key:         input.Key,
		ContentType: input.ContentType,
		Size:        input.Size,
		URL:         url,
	}

	return &storage.UploadResult{Key: input.Key, URL: url}, nil
}

// Exists reports whether an object is stored under the key.
func (s *Storage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[key]
	return ok, nil
}

// Delete removes an object from memory.
func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}

	delete(s.objects, key)
	return nil
}
