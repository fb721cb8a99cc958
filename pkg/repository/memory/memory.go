package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/memoryjar/pkg/domain/interfaces"
	"github.com/secmon-lab/memoryjar/pkg/domain/model"
)

// Memory is an in-process KVStore. With a quota it rejects writes the way a
// browser's local storage does once its budget is spent.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	quota   int
}

var _ interfaces.KVStore = &Memory{}

type Option func(*Memory)

// WithQuota limits the total size of keys plus values in bytes. Zero means
// unlimited.
func WithQuota(bytes int) Option {
	return func(m *Memory) {
		m.quota = bytes
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		entries: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return copyBytes(v), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		used := len(key) + len(value)
		for k, v := range m.entries {
			if k != key {
				used += len(k) + len(v)
			}
		}
		if used > m.quota {
			return goerr.Wrap(model.ErrStorageFull, "memory store quota exceeded",
				goerr.V(model.StoreKeyKey, key),
				goerr.V("quota", m.quota),
				goerr.V("required", used),
			)
		}
	}

	m.entries[key] = copyBytes(value)
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}
