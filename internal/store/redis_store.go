package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	followerCountKeyPrefix = "social:followers:"
	hotKeyScoresKey        = "social:hotkey:scores"
)

// FollowerStore defines Redis operations for follower-count caching and
// hot key tracking.
type FollowerStore interface {
	GetFollowerCount(ctx context.Context, userID string) (int64, bool, error)
	SetFollowerCount(ctx context.Context, userID string, count int64) error
	CondIncrFollowerCount(ctx context.Context, userID string) error
	CondDecrFollowerCount(ctx context.Context, userID string) error
	RecordAccess(ctx context.Context, userID string) error
	GetTopHotKeys(ctx context.Context, n int64) ([]string, error)
	ResetHotKeyScores(ctx context.Context) error
	Close() error
}

// RedisFollowerStore implements FollowerStore backed by Redis.
type RedisFollowerStore struct {
	client *redis.Client
}

// NewRedisFollowerStore creates a new Redis-backed follower store.
func NewRedisFollowerStore(address, password string, db int) (*RedisFollowerStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisFollowerStore{client: client}, nil
}

func followerCountKey(userID string) string {
	return followerCountKeyPrefix + userID
}

// GetFollowerCount returns the cached follower count for a user.
// Returns (count, true, nil) on hit, (0, false, nil) on miss.
func (s *RedisFollowerStore) GetFollowerCount(ctx context.Context, userID string) (int64, bool, error) {
	val, err := s.client.Get(ctx, followerCountKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get follower count: %w", err)
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse follower count: %w", err)
	}
	return count, true, nil
}

// SetFollowerCount sets the follower count for a user in Redis.
func (s *RedisFollowerStore) SetFollowerCount(ctx context.Context, userID string, count int64) error {
	if err := s.client.Set(ctx, followerCountKey(userID), count, 0).Err(); err != nil {
		return fmt.Errorf("redis set follower count: %w", err)
	}
	return nil
}

// condIncrScript atomically increments the key only if it exists.
var condIncrScript = redis.NewScript(`
local key = KEYS[1]
if redis.call("EXISTS", key) == 1 then
  return redis.call("INCR", key)
end
return 0
`)

// condDecrScript atomically decrements the key only if it exists and the
// current value is positive.
var condDecrScript = redis.NewScript(`
local key = KEYS[1]
if redis.call("EXISTS", key) == 1 then
  local val = tonumber(redis.call("GET", key))
  if val and val > 0 then
    return redis.call("DECR", key)
  end
end
return 0
`)

// CondIncrFollowerCount increments the follower count only if the key is
// already cached, so a stale zero is never materialised by a write alone.
func (s *RedisFollowerStore) CondIncrFollowerCount(ctx context.Context, userID string) error {
	err := condIncrScript.Run(ctx, s.client, []string{followerCountKey(userID)}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis cond incr follower count: %w", err)
	}
	return nil
}

// CondDecrFollowerCount decrements the follower count only if the key is
// already cached.
func (s *RedisFollowerStore) CondDecrFollowerCount(ctx context.Context, userID string) error {
	err := condDecrScript.Run(ctx, s.client, []string{followerCountKey(userID)}).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis cond decr follower count: %w", err)
	}
	return nil
}

// RecordAccess increments the access score for a user in the hot key
// sorted set.
func (s *RedisFollowerStore) RecordAccess(ctx context.Context, userID string) error {
	if err := s.client.ZIncrBy(ctx, hotKeyScoresKey, 1, userID).Err(); err != nil {
		return fmt.Errorf("redis record access: %w", err)
	}
	return nil
}

// GetTopHotKeys returns the top-n most accessed user IDs.
func (s *RedisFollowerStore) GetTopHotKeys(ctx context.Context, n int64) ([]string, error) {
	keys, err := s.client.ZRevRange(ctx, hotKeyScoresKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get top hot keys: %w", err)
	}
	return keys, nil
}

// ResetHotKeyScores deletes the hot key scores sorted set.
func (s *RedisFollowerStore) ResetHotKeyScores(ctx context.Context) error {
	if err := s.client.Del(ctx, hotKeyScoresKey).Err(); err != nil {
		return fmt.Errorf("redis reset hot key scores: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisFollowerStore) Close() error {
	return s.client.Close()
}

// Ensure interface is satisfied at compile time.
var _ FollowerStore = (*RedisFollowerStore)(nil)
