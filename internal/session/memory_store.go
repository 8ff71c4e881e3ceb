package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	identity  Identity
	value     string
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. It is used when no REDIS_URL is
// configured and in tests; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]entry
	tokens   map[string]entry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]entry),
		tokens:   make(map[string]entry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, identity Identity, ttl time.Duration) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	identity.SessionID = uuid.NewString()
	s.sessions[identity.SessionID] = entry{identity: identity, expiresAt: s.now().Add(ttl)}
	return identity, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok || s.now().After(e.expiresAt) {
		delete(s.sessions, sessionID)
		return Identity{}, ErrNotFound
	}
	return e.identity, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) DeleteUserSessions(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, e := range s.sessions {
		if e.identity.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

func (s *MemoryStore) SaveToken(_ context.Context, kind string, token string, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[tokenKey(kind, token)] = entry{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) ConsumeToken(_ context.Context, kind string, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tokenKey(kind, token)
	e, ok := s.tokens[key]
	delete(s.tokens, key)
	if !ok || s.now().After(e.expiresAt) {
		return "", ErrNotFound
	}
	return e.value, nil
}
