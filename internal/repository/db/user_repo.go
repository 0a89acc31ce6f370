package db

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// FindByLogin 用户名或邮箱均可登录
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ? OR email = ?", login, login).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var usr model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *UserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) ExistsEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, user *model.User, newPassword string) error {
	return r.DB.WithContext(ctx).Model(user).Update("password", newPassword).Error
}

// Delete 删除用户并按外键策略级联
func (r *UserRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	return NewDeleter(r.DB).Delete(ctx, TableUsers, id)
}
