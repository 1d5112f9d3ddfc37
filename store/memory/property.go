package memory

import (
	"context"
	"sync"
)

// PropertyStore in-memory key value properties
type PropertyStore struct {
	mu     sync.RWMutex
	values map[string]interface{}
}

// NewPropertyStore new in-memory property store
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{values: map[string]interface{}{}}
}

func (s *PropertyStore) Save(ctx context.Context, key string, value interface{}) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

// Get value saved under key
func (s *PropertyStore) Get(ctx context.Context, key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}
