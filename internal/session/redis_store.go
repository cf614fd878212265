// Package session provides cookie-session storage and lookup.
//
// Sessions are opaque random tokens handed to the browser; the server keeps
// the session payload in Redis under a hash of the token, with a TTL.
// Consumers depend on the Provider interface so the backend is swappable.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crewline/crewline/internal/models"
)

// Session is the authenticated caller: who they are, which workspace they
// act in, and with what role. Timezone is the workspace's IANA zone, used
// for calendar-range filters.
type Session struct {
	UserID      string    `json:"user_id"`
	WorkspaceID string    `json:"workspace_id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Timezone    string    `json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
}

// Provider resolves a session token to a validated Session.
// A miss fails with models.ErrNoSession.
type Provider interface {
	Resolve(ctx context.Context, token string) (Session, error)
}

// RedisStore implements session storage using Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "session:", ttl: ttl}, nil
}

// key generates the Redis key for a session token.
// Tokens are hashed so a Redis dump never leaks usable cookies.
func (s *RedisStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))

	return s.prefix + hex.EncodeToString(sum[:])
}

// Create stores sess and returns a fresh opaque token for the cookie.
func (s *RedisStore) Create(ctx context.Context, sess Session) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(buf)

	sess.CreatedAt = time.Now()

	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

// Resolve looks up the session for a token.
func (s *RedisStore) Resolve(ctx context.Context, token string) (Session, error) {
	data, err := s.client.Get(ctx, s.key(token)).Result()
	if err == redis.Nil {
		return Session{}, models.ErrNoSession
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	if sess.Role == "" {
		sess.Role = "viewer"
	}

	return sess, nil
}

// Revoke deletes a session.
func (s *RedisStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	return nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
