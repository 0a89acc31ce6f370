package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"yatube/internal/model"
	"yatube/internal/pkg"
	"yatube/internal/repository/db"
	"yatube/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type UserService struct {
	repo     *db.UserRepository
	rUser    *redis.UserRepository
	jwt      *pkg.JWT
	emailSvc *EmailService
}

func NewUserService(gdb *gorm.DB, tokens *redis.UserRepository, jwt *pkg.JWT, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &db.UserRepository{DB: gdb},
		rUser:    tokens,
		jwt:      jwt,
		emailSvc: emailSvc,
	}
}

type SignupInput struct {
	Username    string
	DisplayName string
	Email       string
	Password    string
}

func validatePassword(errs FieldErrors, field, password string) {
	if len(password) < minPasswordLen {
		errs.Add(field, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLen))
	}
}

// Register 注册
func (s *UserService) Register(ctx context.Context, in SignupInput) (*model.User, error) {
	errs := FieldErrors{}
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		errs.Add("username", "This field is required.")
	} else if len(in.Username) > 150 || !usernamePattern.MatchString(in.Username) {
		errs.Add("username", "Enter a valid username.")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			errs.Add("email", "Enter a valid email address.")
		}
	}
	validatePassword(errs, "password", in.Password)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	taken, err := s.repo.ExistsUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}
	// 邮箱用于找回密码，非空时必须唯一
	if in.Email != "" {
		taken, err = s.repo.ExistsEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:    in.Username,
		DisplayName: strings.TrimSpace(in.DisplayName),
		Email:       in.Email,
		Password:    string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验密码并签发 token，新登录会顶掉旧会话
func (s *UserService) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	user, err := s.repo.FindByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}
	// 将token写入redis
	token, err := s.jwt.Generate(user.ID)
	if err != nil {
		return "", nil, err
	}
	if err := s.rUser.AddUserToken(ctx, user.ID, token); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate 校验 token 是否是当前有效会话，通过后续期
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	origin, err := s.rUser.GetUserToken(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if origin != token {
		return nil, pkg.ErrTokenInvalid
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.rUser.ExtendUserToken(ctx, claims.UserID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Logout(ctx context.Context, usrID uint64) error {
	return s.rUser.DeleteUserToken(ctx, usrID)
}

// RequestReset 邮箱不存在时也返回 nil，不暴露用户是否存在
func (s *UserService) RequestReset(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.emailSvc.SendResetCode(ctx, user.Username, email)
}

// ResetPassword 用验证码重置密码，并踢掉已有会话
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	errs := FieldErrors{}
	validatePassword(errs, "new_password", newPassword)
	if err := errs.Err(); err != nil {
		return err
	}
	if err := s.emailSvc.VerifyCode(ctx, email, code); err != nil {
		return err
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return notFound(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, user.ID)
}

// Delete 删除用户，帖子、评论和关注关系一起删除
func (s *UserService) Delete(ctx context.Context, username string) (int64, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return 0, notFound(err)
	}
	n, err := s.repo.Delete(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	if s.rUser != nil {
		_ = s.rUser.DeleteUserToken(ctx, user.ID)
	}
	return n, nil
}
