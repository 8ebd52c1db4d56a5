package session

import (
	"context"
	"errors"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

type fakeSessionStore struct {
	data map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{data: map[string]string{}}
}

func (f *fakeSessionStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeSessionStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeSessionStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) RefreshSessionKey(tokenID string) string {
	return "hsn:session:refresh:" + tokenID
}

func newTestManager() (*Manager, *fakeSessionStore) {
	store := newFakeSessionStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestTrackAndCheck(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if err := m.Track(ctx, "token-1", "user-1"); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := m.Check(ctx, "token-1"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := m.Check(ctx, "token-2"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound got %v", err)
	}
}

func TestRevokeEndsSession(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if err := m.Track(ctx, "token-1", "user-1"); err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := m.Revoke(ctx, "token-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := m.Check(ctx, "token-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke got %v", err)
	}
}

func TestRotateReplacesSession(t *testing.T) {
	m, store := newTestManager()
	ctx := context.Background()

	if err := m.Track(ctx, "token-1", "user-1"); err != nil {
		t.Fatalf("track: %v", err)
	}

	newID, err := m.Rotate(ctx, "token-1", "user-1")
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if newID == "" || newID == "token-1" {
		t.Fatalf("expected fresh token id got %q", newID)
	}
	if err := m.Check(ctx, "token-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("old session should be gone, got %v", err)
	}
	if err := m.Check(ctx, newID); err != nil {
		t.Fatalf("new session missing: %v", err)
	}
	if got := store.data[fakeKeyer{}.RefreshSessionKey(newID)]; got != "user-1" {
		t.Fatalf("expected user mapping preserved got %q", got)
	}
}

func TestRotateRejectsRevokedToken(t *testing.T) {
	m, _ := newTestManager()

	if _, err := m.Rotate(context.Background(), "never-tracked", "user-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound got %v", err)
	}
}

func TestTrackRequiresTokenID(t *testing.T) {
	m, _ := newTestManager()

	if err := m.Track(context.Background(), "  ", "user-1"); err == nil {
		t.Fatalf("expected error for blank token id")
	}
}
