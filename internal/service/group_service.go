package service

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"yatube/internal/model"
	"yatube/internal/repository/db"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type GroupService struct {
	repo *db.GroupRepository
}

func NewGroupService(gdb *gorm.DB) *GroupService {
	return &GroupService{repo: &db.GroupRepository{DB: gdb}}
}

// Create 新建分组，slug 全局唯一
func (s *GroupService) Create(ctx context.Context, title, slug, description string) (*model.Group, error) {
	errs := FieldErrors{}
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		errs.Add("title", "This field is required.")
	case utf8.RuneCountInString(title) > 200:
		errs.Add("title", "Ensure this value has at most 200 characters.")
	}
	switch {
	case slug == "":
		errs.Add("slug", "This field is required.")
	case len(slug) > 50 || !slugPattern.MatchString(slug):
		errs.Add("slug", "Enter a valid slug.")
	default:
		if _, err := s.repo.FindBySlug(ctx, slug); err == nil {
			errs.Add("slug", "Group with this slug already exists.")
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	g := &model.Group{Title: title, Slug: slug, Description: description}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete 删除分组，组内帖子保留并变为无分组
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return notFound(err)
	}
	_, err = s.repo.Delete(ctx, g.ID)
	return err
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.repo.List(ctx)
}
