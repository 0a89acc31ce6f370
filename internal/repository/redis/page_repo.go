package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const PageCachePrefix = "page:cache:"

// PageCacheRepository 渲染好的页面缓存，过期交给 Redis TTL
type PageCacheRepository struct {
	Client *redis.Client
}

func (r *PageCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.Client.Get(ctx, PageCachePrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *PageCacheRepository) Set(ctx context.Context, key string, body []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, PageCachePrefix+key, body, ttl).Err()
}

// Clear 删除全部页面缓存
func (r *PageCacheRepository) Clear(ctx context.Context) error {
	var keys []string
	iter := r.Client.Scan(ctx, 0, PageCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}
