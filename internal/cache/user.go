package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fitlog/fitlog/internal/model"
)

const (
	userKeyPrefix = "user:"

	// DefaultUserTTL is the TTL for cached user records. Users are never
	// mutated or deleted, so a long TTL only bounds memory, not staleness.
	DefaultUserTTL = time.Hour
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// userKey builds the Redis key for a user ID.
func userKey(id string) string {
	return userKeyPrefix + id
}

// GetUser retrieves a user from cache by ID.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetUser(ctx context.Context, id string) (*model.User, error) {
	result, err := c.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall failed: %w", err)
	}

	if len(result) == 0 {
		return nil, ErrCacheMiss
	}

	user := &model.User{
		ID:       id,
		Username: result["username"],
	}

	if ts, err := strconv.ParseInt(result["created_at"], 10, 64); err == nil {
		user.CreatedAt = time.Unix(ts, 0).UTC()
	}

	return user, nil
}

// SetUser stores a user in cache.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := userKey(user.ID)

	fields := map[string]any{
		"username":   user.Username,
		"created_at": strconv.FormatInt(user.CreatedAt.Unix(), 10),
	}

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, DefaultUserTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache user: %w", err)
	}

	return nil
}
