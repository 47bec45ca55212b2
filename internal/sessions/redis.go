package sessions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as plain string values with a TTL.
type RedisStore struct {
	rc *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rc *redis.Client) *RedisStore {
	return &RedisStore{rc: rc}
}

// DialRedis parses url (redis://host:port/db), connects and pings.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rc, nil
}

// Set writes token -> userID with the given expiry
func (s *RedisStore) Set(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	if s.rc == nil {
		return errors.New("redis client is nil, cannot set session")
	}

	if err := s.rc.Set(ctx, Key(token), strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}

// Get resolves token to a user ID
func (s *RedisStore) Get(ctx context.Context, token string) (int64, error) {
	if s.rc == nil {
		return 0, errors.New("redis client is nil, cannot get session")
	}

	value, err := s.rc.Get(ctx, Key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to get session: %w", err)
	}

	userID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse session value: %w", err)
	}
	return userID, nil
}
