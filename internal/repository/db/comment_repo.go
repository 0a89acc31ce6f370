package db

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

// Create 写评论并记录 outbox 事件
func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.EventComment, c.AuthorID, c.PostID, map[string]any{
			"comment_id": c.ID,
		})
	})
}

// ListByPost 帖子下的评论，最新的在前
func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&list).Error
	return list, err
}
