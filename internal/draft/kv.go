package draft

import (
	"bytes"
	"sync"
)

// KV is the persistence backing for the draft store: a synchronous,
// string-keyed blob store with no expiry and no eviction. Entries persist
// until explicitly removed.
//
// Get reports presence explicitly; an absent key means "no outstanding
// draft". Delete of an absent key is a no-op, not an error.
// CompareAndDelete removes the key only while it still holds value, as one
// atomic step, so a concurrent Set cannot be wiped by a stale delete.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	CompareAndDelete(key string, value []byte) error
}

// MemoryKV is an in-memory KV, safe for concurrent use. It backs tests and
// sessions that do not need drafts to survive a restart.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *MemoryKV) CompareAndDelete(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.data[key]; ok && bytes.Equal(v, value) {
		delete(m.data, key)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
