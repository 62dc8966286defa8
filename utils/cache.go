package utils

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// PageCache is the injected response cache used by feed handlers. Invalidation
// is coarse: mutations call Clear and otherwise entries age out via TTL.
type PageCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte, ttl time.Duration)
	Clear()
}

const defaultCacheTTL = 20 * time.Second

// RedisPageCache implements PageCache on top of Redis. All entries share a
// key prefix so Clear only touches this cache's keys.
type RedisPageCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPageCache creates a page cache with the given default TTL.
func NewRedisPageCache(client *redis.Client, prefix string, ttl time.Duration) *RedisPageCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if prefix == "" {
		prefix = "cache:page:"
	}
	return &RedisPageCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns cached bytes for a key.
func (c *RedisPageCache) Get(key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Put stores bytes under the key. A non-positive ttl falls back to the
// cache's default.
func (c *RedisPageCache) Put(key string, value []byte, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// Clear deletes every key under the cache prefix using SCAN.
func (c *RedisPageCache) Clear() {
	if c == nil || c.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := c.client.Scan(ctx, cursor, c.prefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.client.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}

// CacheJSON marshals v for storage in a PageCache.
func CacheJSON(v interface{}) ([]byte, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	return b, true
}
