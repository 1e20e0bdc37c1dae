package memory

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// Store is a process-local KeyValueStore. Nothing survives a restart.
type Store struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func New() *Store {
	return &Store{entries: map[string][]byte{}}
}

// NewFromFiles seeds the store from <base>/<key>.json for every key given.
// Missing files are skipped.
func NewFromFiles(base string, keys ...string) *Store {
	s := New()
	for _, key := range keys {
		data, err := os.ReadFile(filepath.Join(base, key+".json"))
		if err != nil {
			continue
		}
		s.entries[key] = data
	}
	return s
}

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), value...)
	return nil
}
