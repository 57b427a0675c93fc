package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by tests and by the
// forced-offline development mode where no redis is reachable.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) LastSync(ctx context.Context, domain string) (*time.Time, error) {
	raw, ok, err := s.Get(ctx, lastSyncKey(domain))
	if err != nil || !ok {
		return nil, err
	}
	return parseSyncTime(domain, raw)
}

func (s *MemoryStore) RecordSync(ctx context.Context, domain string, at time.Time) error {
	return s.Set(ctx, lastSyncKey(domain), at.UTC().Format(time.RFC3339))
}

func (s *MemoryStore) ClearSync(ctx context.Context, domain string) error {
	return s.Remove(ctx, lastSyncKey(domain))
}
