package remote

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a map-backed Store. It records every committed write and
// supports per-prefix failure injection, which makes it the test double for
// the savers and the orchestrator.
type MemoryStore struct {
	mu       sync.Mutex
	docs     map[string]map[string]any
	log      []Write
	failures map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]map[string]any),
		failures: make(map[string]error),
	}
}

// FailOn makes every operation touching a path with the given prefix
// return err. Pass a nil err to clear the injection.
func (m *MemoryStore) FailOn(prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, prefix)
		return
	}
	m.failures[prefix] = err
}

func (m *MemoryStore) failureFor(path string) error {
	for prefix, err := range m.failures {
		if strings.HasPrefix(path, prefix) {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, path string) (map[string]any, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failureFor(path); err != nil {
		return nil, false, err
	}

	doc, ok := m.docs[path]
	if !ok {
		return nil, false, nil
	}
	cp := make(map[string]any, len(doc))
	for k, v := range doc {
		cp[k] = v
	}
	return cp, true, nil
}

func (m *MemoryStore) SetMerge(ctx context.Context, path string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMergeLocked(path, fields)
}

func (m *MemoryStore) setMergeLocked(path string, fields map[string]any) error {
	if err := m.failureFor(path); err != nil {
		return err
	}

	doc, ok := m.docs[path]
	if !ok {
		doc = make(map[string]any, len(fields))
		m.docs[path] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.log = append(m.log, Write{Path: path, Fields: fields})
	return nil
}

// BatchSetMerge applies all writes or none: a failure injected on any path
// of the batch leaves the store untouched.
func (m *MemoryStore) BatchSetMerge(ctx context.Context, writes []Write) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range writes {
		if err := m.failureFor(w.Path); err != nil {
			return err
		}
	}
	for _, w := range writes {
		if err := m.setMergeLocked(w.Path, w.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failureFor(path); err != nil {
		return err
	}
	delete(m.docs, path)
	return nil
}

func (m *MemoryStore) DeleteAll(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failureFor(prefix); err != nil {
		return err
	}
	for path := range m.docs {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			delete(m.docs, path)
		}
	}
	return nil
}

func (m *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var paths []string
	for path := range m.docs {
		if strings.HasPrefix(path, prefix+"/") {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// WritesUnder counts committed merge-writes whose path starts with prefix.
func (m *MemoryStore) WritesUnder(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, w := range m.log {
		if strings.HasPrefix(w.Path, prefix) {
			n++
		}
	}
	return n
}
