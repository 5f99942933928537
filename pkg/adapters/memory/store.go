// Package memory provides an in-process session store.
package memory

import (
	"context"
	"time"

	"github.com/aretw0/voyage/pkg/domain"
	"github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired sessions are purged.
const DefaultCleanupInterval = 10 * time.Minute

// Store implements ports.StateStore in memory.
// Sessions idle for longer than the TTL are evicted. Safe for concurrent use.
type Store struct {
	cache *cache.Cache
}

// Option configures the Store.
type Option func(*settings)

type settings struct {
	ttl     time.Duration
	cleanup time.Duration
}

// WithTTL evicts sessions not saved for ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired sessions are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *settings) {
		s.cleanup = d
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := settings{cleanup: DefaultCleanupInterval}
	for _, opt := range opts {
		opt(&s)
	}

	ttl := s.ttl
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Store{cache: cache.New(ttl, s.cleanup)}
}

// Save persists a copy of the session, refreshing its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, session *domain.Session) error {
	s.cache.Set(sessionID, session.Clone(), cache.DefaultExpiration)
	return nil
}

// Load retrieves a copy of the session so callers can't mutate the store.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	v, ok := s.cache.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return v.(*domain.Session).Clone(), nil
}

// Delete removes the session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// List returns the IDs of sessions that have not expired.
func (s *Store) List(ctx context.Context) ([]string, error) {
	items := s.cache.Items()
	sessions := make([]string, 0, len(items))
	for id := range items {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
