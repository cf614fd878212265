package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/crewline/crewline/internal/models"
)

func setupTestStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), ttl)
	if err != nil {
		t.Fatalf("creating redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, s
}

func testSession() Session {
	return Session{
		UserID:      "u1",
		WorkspaceID: "00000000-0000-0000-0000-000000000001",
		Email:       "dispatcher@example.com",
		Role:        "dispatcher",
		Timezone:    "America/Chicago",
	}
}

func TestCreateAndResolve(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, testSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(token))
	}

	sess, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if sess.UserID != "u1" || sess.Role != "dispatcher" || sess.Timezone != "America/Chicago" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}
}

func TestResolve_UnknownToken(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), "deadbeef")
	if !errors.Is(err, models.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestResolve_ExpiredToken(t *testing.T) {
	store, s := setupTestStore(t, time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, testSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	s.FastForward(2 * time.Minute)

	if _, err := store.Resolve(ctx, token); !errors.Is(err, models.ErrNoSession) {
		t.Errorf("expected ErrNoSession after TTL, got %v", err)
	}
}

func TestResolve_EmptyRoleDefaultsToViewer(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	sess := testSession()
	sess.Role = ""

	token, err := store.Create(ctx, sess)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.Resolve(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Role != "viewer" {
		t.Errorf("expected viewer fallback, got %q", got.Role)
	}
}

func TestRevoke(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, testSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := store.Revoke(ctx, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	if _, err := store.Resolve(ctx, token); !errors.Is(err, models.ErrNoSession) {
		t.Errorf("expected ErrNoSession after revoke, got %v", err)
	}
}

func TestTokensAreHashedAtRest(t *testing.T) {
	store, s := setupTestStore(t, time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, testSession())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The raw cookie value must never appear as a Redis key.
	if s.Exists("session:" + token) {
		t.Error("session stored under raw token")
	}
	if !s.Exists(store.key(token)) {
		t.Error("session not stored under hashed key")
	}
}
