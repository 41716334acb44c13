package cache

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache with a shared Redis instance so several API replicas
// refresh the digest once per TTL instead of once each. Redis errors degrade
// to cache misses.
type Redis struct {
	rdb *redis.Client
	ctx context.Context
}

func NewRedis(rdb *redis.Client, ctx context.Context) *Redis {
	return &Redis{rdb: rdb, ctx: ctx}
}

func (r *Redis) Get(key string) ([]byte, bool) {
	value, err := r.rdb.Get(r.ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache get %q: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

func (r *Redis) Set(key string, value []byte, ttl time.Duration) {
	if err := r.rdb.Set(r.ctx, key, value, ttl).Err(); err != nil {
		log.Printf("cache set %q: %v", key, err)
	}
}

func (r *Redis) Invalidate(key string) {
	if err := r.rdb.Del(r.ctx, key).Err(); err != nil {
		log.Printf("cache invalidate %q: %v", key, err)
	}
}
