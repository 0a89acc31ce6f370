package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code:"
	CodeResetPrefix     = EmailCodePrefix + "reset"
	ResetAttemptsPrefix = "code:reset:attempts"
)

var (
	ErrEmailNotFound      = errors.New("email not found")
	ErrEmailCodeDelFailed = errors.New("email code delete failed")
	ErrCodeSaveFailed     = errors.New("code save failed")
)

// EmailRepository 找回密码验证码
type EmailRepository struct {
	Client *redis.Client
}

func (e *EmailRepository) key(email string) string {
	return fmt.Sprintf("%s:%s", CodeResetPrefix, email)
}

func (e *EmailRepository) attemptsKey(email string) string {
	return fmt.Sprintf("%s:%s", ResetAttemptsPrefix, email)
}

// SaveResetCode 写入验证码，重复发送会覆盖旧的，并清零错误次数
func (e *EmailRepository) SaveResetCode(ctx context.Context, email, code string) error {
	_, err := e.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, e.key(email), code, DefaultEmailCodeTTL)
		pipe.Del(ctx, e.attemptsKey(email))
		return nil
	})
	if err != nil {
		return ErrCodeSaveFailed
	}
	return nil
}

// IncrResetAttempts 记录一次错误的验证码，返回累计次数，过期时间与验证码一致
func (e *EmailRepository) IncrResetAttempts(ctx context.Context, email string) (int64, error) {
	var incr *redis.IntCmd
	_, err := e.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, e.attemptsKey(email))
		pipe.Expire(ctx, e.attemptsKey(email), DefaultEmailCodeTTL)
		return nil
	})
	if err != nil {
		return 0, ErrRedisUnavailable
	}
	return incr.Val(), nil
}

// GetResetCode 获取验证码（校验时使用）
func (e *EmailRepository) GetResetCode(ctx context.Context, email string) (string, error) {
	val, err := e.Client.Get(ctx, e.key(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrEmailNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return val, nil
}

// DeleteResetCode 删除验证码和错误次数（幂等）
func (e *EmailRepository) DeleteResetCode(ctx context.Context, email string) error {
	if err := e.Client.Del(ctx, e.key(email), e.attemptsKey(email)).Err(); err != nil {
		return ErrEmailCodeDelFailed
	}
	return nil
}
