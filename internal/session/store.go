package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Store keeps one Flow per session id. Loading an unknown or expired id
// yields a fresh Flow.
type Store interface {
	Load(ctx context.Context, id string) (*Flow, error)
	Save(ctx context.Context, id string, flow *Flow) error
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded flows in process. Flows are copied in and out so
// concurrent requests never share one.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*Flow, error) {
	s.mu.Lock()
	entry, ok := s.entries[id]
	if ok && s.expired(entry) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return NewFlow(), nil
	}
	return decodeFlow(entry.data)
}

func (s *MemoryStore) Save(ctx context.Context, id string, flow *Flow) error {
	data, err := json.Marshal(flow)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, key)
		}
	}
	s.entries[id] = memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return s.ttl > 0 && !s.now().Before(entry.expiresAt)
}

func decodeFlow(data []byte) (*Flow, error) {
	flow := NewFlow()
	if err := json.Unmarshal(data, flow); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return flow, nil
}
