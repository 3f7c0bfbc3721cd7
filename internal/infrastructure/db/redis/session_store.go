package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listasy/grocery-api/internal/core/domain"
)

// SessionStore tracks issued access tokens so they can be revoked before
// they expire. Tokens are never stored in clear.
// Key format: session:<sha256(access_token)>
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Save records accessToken as live for userID until ttl elapses.
func (s *SessionStore) Save(ctx context.Context, accessToken, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(accessToken), userID, ttl).Err(); err != nil {
		return fmt.Errorf("%w: session save: %w", domain.ErrBackend, err)
	}
	return nil
}

// Exists reports whether accessToken is still live.
func (s *SessionStore) Exists(ctx context.Context, accessToken string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(accessToken)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: session check: %w", domain.ErrBackend, err)
	}
	return n > 0, nil
}

// Delete revokes accessToken. Deleting an unknown token is not an error.
func (s *SessionStore) Delete(ctx context.Context, accessToken string) error {
	if err := s.client.Del(ctx, s.key(accessToken)).Err(); err != nil {
		return fmt.Errorf("%w: session delete: %w", domain.ErrBackend, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStore) key(accessToken string) string {
	sum := sha256.Sum256([]byte(accessToken))
	return "session:" + hex.EncodeToString(sum[:])
}
