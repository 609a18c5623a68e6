// Package inmem is a map backed core.Storage, used by tests and ephemeral runs.
package inmem

import (
	"context"
	"sync"

	"github.com/trezcool/academia/core"
)

type Storage struct {
	mutex sync.RWMutex
	table map[string][]byte
}

var _ core.Storage = (*Storage)(nil)

func New() *Storage {
	return &Storage{table: make(map[string][]byte)}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	val, ok := s.table[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), val...), nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = append([]byte(nil), value...)
	return nil
}

func (s *Storage) Delete(_ context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for _, key := range keys {
		delete(s.table, key)
	}
	return nil
}

// Len is the number of stored keys.
func (s *Storage) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}

func (s *Storage) Close() error { return nil }
