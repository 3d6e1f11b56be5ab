package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sntlabs/evetradetool/internal/domain"
)

// NameCache implements domain.NameCache with plain string values.
//
// Key schema:
//
//	name:{kind}:{id} - resolved display name
type NameCache struct {
	rdb *redis.Client
}

// NewNameCache creates a NameCache backed by the given Client.
func NewNameCache(c *Client) *NameCache {
	return &NameCache{rdb: c.Underlying()}
}

func nameKey(kind string, id int64) string {
	return fmt.Sprintf("name:%s:%d", kind, id)
}

// GetName retrieves a cached display name. It returns domain.ErrNotFound
// when the name has not been cached or has expired.
func (nc *NameCache) GetName(ctx context.Context, kind string, id int64) (string, error) {
	name, err := nc.rdb.Get(ctx, nameKey(kind, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("redis: get name %s:%d: %w", kind, id, err)
	}
	return name, nil
}

// SetName caches a resolved display name with the given TTL.
func (nc *NameCache) SetName(ctx context.Context, kind string, id int64, name string, ttl time.Duration) error {
	if err := nc.rdb.Set(ctx, nameKey(kind, id), name, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set name %s:%d: %w", kind, id, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.NameCache = (*NameCache)(nil)
