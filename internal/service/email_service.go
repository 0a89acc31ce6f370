package service

import (
	"context"
	"crypto/subtle"
	"errors"

	"yatube/internal/pkg"
	"yatube/internal/repository/redis"
)

// MaxResetAttempts 验证码允许输错的次数，超过后作废
const MaxResetAttempts = 5

type EmailService struct {
	mailer pkg.Mailer
	rds    *redis.EmailRepository
}

func NewEmailService(mailer pkg.Mailer, rds *redis.EmailRepository) *EmailService {
	return &EmailService{mailer: mailer, rds: rds}
}

// SendResetCode 发送重置密码验证码，邮件发送失败时删除验证码
func (s *EmailService) SendResetCode(ctx context.Context, username, email string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}
	if err = s.rds.SaveResetCode(ctx, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(username, code, redis.DefaultEmailCodeTTL)
	if err = s.mailer.Send(email, "Password reset code", html); err != nil {
		_ = s.rds.DeleteResetCode(ctx, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码，通过后一次性删除；输错 MaxResetAttempts 次后验证码作废
func (s *EmailService) VerifyCode(ctx context.Context, email, code string) error {
	val, err := s.rds.GetResetCode(ctx, email)
	if errors.Is(err, redis.ErrEmailNotFound) {
		return ErrInvalidCode
	}
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(val), []byte(code)) != 1 {
		n, err := s.rds.IncrResetAttempts(ctx, email)
		if err != nil {
			return err
		}
		if n >= MaxResetAttempts {
			if err := s.rds.DeleteResetCode(ctx, email); err != nil {
				return err
			}
		}
		return ErrInvalidCode
	}
	return s.rds.DeleteResetCode(ctx, email)
}
