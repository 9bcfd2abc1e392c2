package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/bodhitab/quote-service/internal/ports"
)

var errEstimate = errors.New("estimate unavailable")

// memoryStore is a JSON-round-tripping ports.KeyValueStore with failure knobs.
type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	dropSets     bool
	failEstimate bool
	quota        int64
	usage        int64 // overrides the computed size when > 0
	sets         int
}

var _ ports.KeyValueStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte), quota: 5 << 20}
}

func (m *memoryStore) Get(_ context.Context, key string, dst any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.data[key]
	if !ok {
		return false
	}

	return json.Unmarshal(raw, dst) == nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++

	if m.dropSets {
		return false
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}

	m.data[key] = raw

	return true
}

func (m *memoryStore) Remove(_ context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return true
}

func (m *memoryStore) Clear(_ context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string][]byte)

	return true
}

func (m *memoryStore) Estimate(_ context.Context) (ports.StorageEstimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failEstimate {
		return ports.StorageEstimate{}, errEstimate
	}

	usage := m.usage
	if usage == 0 {
		for k, v := range m.data {
			usage += int64(len(k) + len(v))
		}
	}

	return ports.StorageEstimate{Usage: usage, Quota: m.quota}, nil
}

func (m *memoryStore) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return string(m.data[key])
}

func (m *memoryStore) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sets
}

func jsonUnmarshal(raw string, dst any) error {
	return json.Unmarshal([]byte(raw), dst)
}

func jsonMarshal(v any) (string, error) {
	out, err := json.Marshal(v)
	return string(out), err
}
