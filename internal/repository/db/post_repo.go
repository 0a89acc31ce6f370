package db

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

// Scope 列表查询的过滤条件
type Scope func(*gorm.DB) *gorm.DB

// All 不过滤
func All(db *gorm.DB) *gorm.DB { return db }

func ByGroup(groupID uint64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("group_id = ?", groupID)
	}
}

func ByAuthor(authorID uint64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("author_id = ?", authorID)
	}
}

// FollowedBy 只保留 userID 关注的作者的帖子
func FollowedBy(userID uint64) Scope {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Model(&model.Follow{}).
			Select("author_id").
			Where("user_id = ?", userID)
		return db.Where("author_id IN (?)", sub)
	}
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Create(post).Error
}

// Update 只更新可编辑字段，作者和发布时间不变
func (r *PostRepository) Update(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Model(post).
		Select("text", "group_id", "image").
		Updates(map[string]any{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	return &post, err
}

func (r *PostRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Count 统计满足条件的帖子数量
func (r *PostRepository) Count(ctx context.Context, scope Scope) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Post{}).Scopes(scope).Count(&n).Error
	return n, err
}

// List 基础分页查询，按发布时间倒序，同一时间用 id 打破并列
func (r *PostRepository) List(ctx context.Context, scope Scope, offset, limit int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Scopes(scope).
		Preload("Author").
		Preload("Group").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
