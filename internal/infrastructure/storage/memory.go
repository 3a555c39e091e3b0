package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStorage is an in-process photo store for tests and the memory backend
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailDelete makes Delete return an error
	FailDelete bool
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (m *MemoryStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete {
		return fmt.Errorf("failed to delete %s", key)
	}
	delete(m.objects, key)
	return nil
}

func (m *MemoryStorage) URL(key string) string {
	return "/photos/" + key
}

// Has reports whether key is stored
func (m *MemoryStorage) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
