package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/config"
	redisclient "github.com/higherself/network-server/pkg/redis"
	redislib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound signals a refresh token whose session was revoked or expired.
var ErrSessionNotFound = errors.New("refresh session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	RefreshSessionKey(tokenID string) string
}

// Manager tracks live refresh-token sessions in Redis so a refresh token can
// be revoked before its JWT expiry (logout, deactivation).
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.RefreshTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("refresh token ttl must be positive")
	}
	if accessTTL := cfg.AccessTokenTTL(); ttl <= accessTTL {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Track registers the refresh-token ID for the given user.
func (m *Manager) Track(ctx context.Context, tokenID string, userID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Set(ctx, m.keyer.RefreshSessionKey(tokenID), userID, m.ttl)
}

// Check verifies that the refresh-token ID still maps to a live session.
func (m *Manager) Check(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return ErrSessionNotFound
	}
	if _, err := m.store.Get(ctx, m.keyer.RefreshSessionKey(tokenID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

// Revoke deletes the session tied to the refresh-token ID.
func (m *Manager) Revoke(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("token id is required")
	}
	return m.store.Del(ctx, m.keyer.RefreshSessionKey(tokenID))
}

// Rotate revokes the old session and registers a new one atomically enough
// for the single-writer refresh path.
func (m *Manager) Rotate(ctx context.Context, oldTokenID, userID string) (string, error) {
	if err := m.Check(ctx, oldTokenID); err != nil {
		return "", err
	}
	newTokenID := NewTokenID()
	if err := m.Track(ctx, newTokenID, userID); err != nil {
		return "", err
	}
	if err := m.Revoke(ctx, oldTokenID); err != nil {
		return "", err
	}
	return newTokenID, nil
}

// NewTokenID produces the identifier used as the refresh JWT jti and Redis key.
func NewTokenID() string {
	return uuid.NewString()
}
