package service

import (
	"context"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository/db"

	"gorm.io/gorm"
)

type CommentService struct {
	comments *db.CommentRepository
	posts    *db.PostRepository
}

func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{
		comments: &db.CommentRepository{DB: gdb},
		posts:    &db.PostRepository{DB: gdb},
	}
}

// Create 评论和 outbox 事件在同一个事务里写入
func (s *CommentService) Create(ctx context.Context, authorID, postID uint64, text string) (*model.Comment, error) {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, FieldErrors{"text": "This field is required."}
	}
	c := &model.Comment{PostID: postID, AuthorID: authorID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
