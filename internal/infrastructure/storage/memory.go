package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryStore is an in-memory ObjectStore used by tests and local
// development. It mirrors the bucket semantics: whole-object overwrite,
// lexicographic prefix listing with cursor pagination.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	puts    int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) GetJSON(_ context.Context, key string, out any) error {
	m.mu.RLock()
	data, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return json.Unmarshal(data, out)
}

func (m *MemoryStore) PutJSON(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal object %s: %w", key, err)
	}
	m.mu.Lock()
	m.objects[key] = data
	m.puts++
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) List(_ context.Context, prefix string, limit int32, cursor, delimiter string) (*ListResult, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if delimiter != "" {
			// Keys with the delimiter past the prefix belong to a "subfolder".
			if strings.Contains(strings.TrimPrefix(key, prefix), delimiter) {
				continue
			}
		}
		keys = append(keys, key)
	}
	m.mu.RUnlock()

	sort.Strings(keys)

	start := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil {
			start = n
		}
	}
	if start > len(keys) {
		start = len(keys)
	}

	end := start + int(limit)
	if limit <= 0 || end > len(keys) {
		end = len(keys)
	}

	result := &ListResult{}
	for _, key := range keys[start:end] {
		result.Objects = append(result.Objects, ObjectInfo{Key: key})
	}
	if end < len(keys) {
		result.NextCursor = strconv.Itoa(end)
	}
	return result, nil
}

// Exists reports whether a key is present, for test assertions.
func (m *MemoryStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// PutCount returns how many writes the store has absorbed, for test assertions.
func (m *MemoryStore) PutCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.puts
}

// Delete removes a key, for test setup.
func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
}

var _ ObjectStore = (*MemoryStore)(nil)
