package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const responseKeyPrefix = "resp:"

// ResponseStore keeps cached HTTP response bodies in Redis.
// Key format: resp:<cache key>
type ResponseStore struct {
	client redis.Cmdable
}

// NewResponseStore creates a ResponseStore wrapping the given Redis client.
func NewResponseStore(client redis.Cmdable) *ResponseStore {
	return &ResponseStore{client: client}
}

// Get returns the cached body for key. A missing key is a miss, not an error.
func (s *ResponseStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("response cache get: %w", err)
	}
	return b, true, nil
}

// Set stores value under key; Redis expires it after ttl.
func (s *ResponseStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("response cache set: %w", err)
	}
	return nil
}

func (s *ResponseStore) key(k string) string {
	return responseKeyPrefix + k
}
