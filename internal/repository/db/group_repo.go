package db

import (
	"context"

	"yatube/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func (r *GroupRepository) Create(ctx context.Context, g *model.Group) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint64) (*model.Group, error) {
	var group model.Group
	err := r.DB.WithContext(ctx).First(&group, id).Error
	return &group, err
}

func (r *GroupRepository) FindBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var group model.Group
	err := r.DB.WithContext(ctx).Where("slug = ?", slug).First(&group).Error
	return &group, err
}

func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var list []model.Group
	err := r.DB.WithContext(ctx).Order("title ASC").Find(&list).Error
	return list, err
}

// Delete 删除分组，帖子保留，group_id 置空
func (r *GroupRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	return NewDeleter(r.DB).Delete(ctx, TableGroups, id)
}
