package flash

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type memoryEntry struct {
	messages  []Message
	expiresAt time.Time
}

// MemoryStore implements Store in process memory
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory store. Sessions idle for longer
// than ttl are discarded; ttl <= 0 keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}

	slog.Info("Initialized in-memory flash store", "ttl", ttl.String())
	return s
}

// Push appends a message for the session
func (s *MemoryStore) Push(ctx context.Context, session string, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	entry, ok := s.sessions[session]
	if !ok {
		entry = &memoryEntry{}
		s.sessions[session] = entry
	}
	entry.messages = append(entry.messages, msg)
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	return nil
}

// Drain returns and removes all pending messages for the session
func (s *MemoryStore) Drain(ctx context.Context, session string) ([]Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())

	entry, ok := s.sessions[session]
	if !ok {
		return nil, nil
	}
	delete(s.sessions, session)
	return entry.messages, nil
}

// Close drops all pending messages
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*memoryEntry)
	return nil
}

func (s *MemoryStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for k, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, k)
		}
	}
}
