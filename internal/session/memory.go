package session

import (
	"context"
	"sync"
	"time"

	"github.com/ctfe/ctfe/internal/dependencies/clock"
	"github.com/ctfe/ctfe/internal/model"
)

// MemoryStore is an in-memory session cache for development and tests
type MemoryStore struct {
	clock clock.Clock

	mu      sync.RWMutex
	entries map[model.UserID]memoryEntry
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// Ensure MemoryStore implements the interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session cache
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		entries: make(map[model.UserID]memoryEntry),
	}
}

func (s *MemoryStore) Put(ctx context.Context, id model.UserID, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{
		payload:   payload,
		expiresAt: s.clock.Now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id model.UserID) ([]byte, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrSessionNotFound
	}

	if s.clock.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, id)
		s.mu.Unlock()
		return nil, model.ErrSessionNotFound
	}

	return entry.payload, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id model.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
