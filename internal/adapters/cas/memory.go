package cas

import (
	"slices"
	"sync"
)

// memoryTier is the volatile tier. It stores private copies of the values it
// receives and hands out shared, read-only slices.
type memoryTier struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newMemoryTier() *memoryTier {
	return &memoryTier{entries: make(map[string][]byte)}
}

func (m *memoryTier) get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *memoryTier) set(key string, value []byte) {
	v := slices.Clone(value)
	if v == nil {
		v = []byte{}
	}
	m.mu.Lock()
	m.entries[key] = v
	m.mu.Unlock()
}

func (m *memoryTier) delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *memoryTier) clear() {
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()
}

func (m *memoryTier) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
