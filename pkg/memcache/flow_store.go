package mem

import (
	"context"
	"time"
)

// FlowStore keeps per-session flow fields in memory, the server-side
// stand-in for browser session/local storage.
type FlowStore struct {
	cache *Cache[string]
	ttl   time.Duration
}

func NewFlowStore(ttl time.Duration) *FlowStore {
	return &FlowStore{cache: NewCache[string](), ttl: ttl}
}

func flowKey(sessionID, key string) string {
	return sessionID + "/" + key
}

func (s *FlowStore) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	v, ok := s.cache.Get(flowKey(sessionID, key))
	return v, ok, nil
}

func (s *FlowStore) Set(_ context.Context, sessionID, key, value string) error {
	s.cache.Set(flowKey(sessionID, key), value, s.ttl)
	return nil
}

func (s *FlowStore) Delete(_ context.Context, sessionID string, keys ...string) error {
	for _, k := range keys {
		s.cache.Delete(flowKey(sessionID, k))
	}
	return nil
}

func (s *FlowStore) DeletePrefix(_ context.Context, sessionID, prefix string) error {
	s.cache.DeletePrefix(flowKey(sessionID, prefix))
	return nil
}

func (s *FlowStore) Sweep() int { return s.cache.Sweep() }
