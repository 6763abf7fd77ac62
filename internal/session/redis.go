package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctfe/ctfe/internal/model"
)

const keyPrefix = "ctfe:session"

// RedisStore is a Redis-backed session cache
type RedisStore struct {
	client *redis.Client
}

// Ensure RedisStore implements the interface
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a session cache on an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// sessionKey returns the Redis key for a user's session payload
func sessionKey(id model.UserID) string {
	return fmt.Sprintf("%s:%s", keyPrefix, id)
}

func (s *RedisStore) Put(ctx context.Context, id model.UserID, payload []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, sessionKey(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id model.UserID) ([]byte, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}
	return payload, nil
}

func (s *RedisStore) Delete(ctx context.Context, id model.UserID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}
	return nil
}
