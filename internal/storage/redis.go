package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL is how long an idle Redis session survives
const DefaultSessionTTL = 30 * time.Minute

// RedisSessionStore keeps session values in a Redis hash so several processes
// can share one session. Every write extends the session by its TTL.
type RedisSessionStore struct {
	client    *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisSessionStore creates a session store for sessionID.
// A non-positive ttl uses DefaultSessionTTL.
func NewRedisSessionStore(client *redis.Client, sessionID string, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisSessionStore{
		client:    client,
		sessionID: sessionID,
		ttl:       ttl,
	}
}

// ID returns the session identifier
func (s *RedisSessionStore) ID() string {
	return s.sessionID
}

// Get returns the value stored under name
func (s *RedisSessionStore) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := s.client.HGet(ctx, getSessionKey(s.sessionID), name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get session value: %w", err)
	}
	return value, true, nil
}

// Set stores value under name and refreshes the session TTL
func (s *RedisSessionStore) Set(ctx context.Context, name, value string) error {
	key := getSessionKey(s.sessionID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, name, value)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session value: %w", err)
	}
	return nil
}

// Clear ends the session, dropping every value
func (s *RedisSessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, getSessionKey(s.sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// getSessionKey returns the Redis key holding a session's values
func getSessionKey(sessionID string) string {
	return fmt.Sprintf("webutils:session:%s", sessionID)
}
