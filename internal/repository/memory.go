package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/floating-cart/internal/port"
)

type memoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory returns a process-local KeyValueStore. Values do not outlive the process.
func NewMemory() port.KeyValueStore {
	return &memoryStore{
		values: make(map[string][]byte),
	}
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, port.ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)

	return nil
}
