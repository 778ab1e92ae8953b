package utils

import (
	"context"
	"encoding/json"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache stores JSON-encodable values with a TTL. Values round-trip through
// JSON in both backends so callers see the same behaviour either way.
type Cache interface {
	Get(ctx context.Context, key string, dst interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
}

// cacheItem 包装缓存数据和过期时间
type cacheItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// LocalCache is an in-process LRU cache.
type LocalCache struct {
	lruCache *lru.Cache[string, cacheItem]
}

// NewLocalCache creates an LRU cache holding at most size entries.
func NewLocalCache(size int) *LocalCache {
	l, err := lru.New[string, cacheItem](size)
	if err != nil {
		// only fails for size <= 0
		l, _ = lru.New[string, cacheItem](500)
	}
	return &LocalCache{lruCache: l}
}

func (c *LocalCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: value not encodable")
		return
	}
	c.lruCache.Add(key, cacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get decodes the cached value into dst. Missing or expired keys return false.
func (c *LocalCache) Get(_ context.Context, key string, dst interface{}) bool {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return false
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return false
	}

	return json.Unmarshal(val.Data, dst) == nil
}

func (c *LocalCache) Delete(_ context.Context, keys ...string) {
	for _, key := range keys {
		c.lruCache.Remove(key)
	}
}

// RedisCache shares cached responses between API replicas.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache parses a redis:// URL and verifies the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisCache{client: client, prefix: "civicos:"}, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: value not encodable")
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: redis set failed")
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("cache: redis get failed")
		}
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		log.Warn().Err(err).Msg("cache: redis delete failed")
	}
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NewCache picks Redis when a URL is configured and reachable, and falls back
// to the local LRU otherwise.
func NewCache(ctx context.Context, redisURL string) Cache {
	if redisURL != "" {
		rc, err := NewRedisCache(ctx, redisURL)
		if err == nil {
			log.Info().Msg("using redis response cache")
			return rc
		}
		log.Warn().Err(err).Msg("redis unavailable, falling back to local cache")
	}
	return NewLocalCache(500)
}
