package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionStore maps opaque tokens to user ids with a fixed TTL. Expiry is
// handled natively by the expirable LRU, measured from Issue time; there is
// no sweep goroutine and no sliding refresh on Resolve.
type SessionStore struct {
	cache *expirable.LRU[string, int64]
	ttl   time.Duration
}

func NewSessionStore(maxSessions int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		cache: expirable.NewLRU[string, int64](maxSessions, nil, ttl),
		ttl:   ttl,
	}
}

// Issue creates a session for userID and returns its token.
func (s *SessionStore) Issue(userID int64) string {
	token := uuid.NewString()
	s.cache.Add(token, userID)
	return token
}

// Resolve returns the user id for a live token.
func (s *SessionStore) Resolve(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}
	return s.cache.Get(token)
}

// Revoke drops a session. Revoking an unknown or expired token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.cache.Remove(token)
}

func (s *SessionStore) Len() int {
	return s.cache.Len()
}
