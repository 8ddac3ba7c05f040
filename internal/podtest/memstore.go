package podtest

import (
	"errors"
	"sync"
	"time"
)

// MemStore is a minimal in-memory key/value store satisfying the
// pod package's unexported storage interface structurally (the same
// shape github.com/gofiber/storage/memory/v2 exposes in production).
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore constructs an empty store.
func NewMemStore() *MemStore { return &MemStore{data: map[string][]byte{}} }

func (s *MemStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, errors.New("podtest: key not found")
	}
	return v, nil
}

func (s *MemStore) Set(key string, val []byte, exp time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = val
	return nil
}

func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
