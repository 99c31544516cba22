package database

import (
	"context"
	"errors"
	"sync"
)

// ErrSlotEmpty is returned by Get when nothing is stored under the key
var ErrSlotEmpty = errors.New("slot is empty")

// SlotStore is a small string-keyed durable store. Each key holds one value;
// Put overwrites.
type SlotStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore keeps slots in process memory. Used when no durable store is
// configured and in tests.
type MemoryStore struct {
	mutex sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	value, ok := m.slots[key]
	if !ok {
		return "", ErrSlotEmpty
	}
	return value, nil
}

func (m *MemoryStore) Put(ctx context.Context, key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.slots, key)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
