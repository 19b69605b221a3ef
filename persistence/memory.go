package persistence

import (
	"fmt"
	"sync"

	"github.com/reyzin/scrypto/avltree"
)

// MemoryStore is an in-memory Store: a mutex-guarded map keyed by the
// digest's byte string, plus a running head pointer. Useful for tests and the sample driver; nothing survives
// process exit.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
	head avltree.Label
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(version avltree.Label, snapshot []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[string(version)] = append([]byte{}, snapshot...)
	s.head = version.Clone()
	return nil
}

func (s *MemoryStore) Get(version avltree.Label) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[string(version)]
	if !ok {
		return nil, fmt.Errorf("persistence: version %x: %w", []byte(version), ErrVersionNotFound)
	}
	return append([]byte{}, data...), nil
}

func (s *MemoryStore) Head() (avltree.Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.head == nil {
		return nil, false
	}
	return s.head.Clone(), true
}

func (s *MemoryStore) NonEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data) > 0
}
