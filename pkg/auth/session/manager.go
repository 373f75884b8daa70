package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	AccessSessionKey(accessID string) string
}

// Store is the combined surface the manager needs from the redis client.
type Store interface {
	sessionStore
	sessionKeyer
}

// Manager tracks live sessions keyed by token jti so tokens can be revoked
// before their signature expires (logout, demo account teardown).
type Manager struct {
	store Store
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(store Store) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Manager{store: store}, nil
}

// Register records a session for the provided access ID with the token's TTL.
func (m *Manager) Register(ctx context.Context, accessID string, ttl time.Duration) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return m.store.Set(ctx, m.store.AccessSessionKey(accessID), time.Now().UTC().Format(time.RFC3339), ttl)
}

// Revoke deletes the session tied to the access identifier.
func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return fmt.Errorf("access id is required")
	}
	return m.store.Del(ctx, m.store.AccessSessionKey(accessID))
}

// HasSession reports whether the provided access ID still has a live session.
func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, fmt.Errorf("access id is required")
	}
	if _, err := m.store.Get(ctx, m.store.AccessSessionKey(accessID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewAccessID produces a stable identifier used as the JWT jti/Redis key.
func NewAccessID() string {
	return uuid.NewString()
}
