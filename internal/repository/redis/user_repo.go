package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	UserTokenPrefix   = "login:user:token"
	DefaultSessionTTL = 14 * 24 * time.Hour
)

// UserRepository 登录态，每个用户只保留一个有效 token
type UserRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r *UserRepository) key(usrID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, usrID)
}

func (r *UserRepository) ttl() time.Duration {
	if r.TTL <= 0 {
		return DefaultSessionTTL
	}
	return r.TTL
}

func (r *UserRepository) AddUserToken(ctx context.Context, usrID uint64, token string) error {
	if err := r.Client.Set(ctx, r.key(usrID), token, r.ttl()).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *UserRepository) GetUserToken(ctx context.Context, usrID uint64) (string, error) {
	token, err := r.Client.Get(ctx, r.key(usrID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// ExtendUserToken 滑动过期
func (r *UserRepository) ExtendUserToken(ctx context.Context, usrID uint64) error {
	if err := r.Client.Expire(ctx, r.key(usrID), r.ttl()).Err(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *UserRepository) DeleteUserToken(ctx context.Context, usrID uint64) error {
	if err := r.Client.Del(ctx, r.key(usrID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
