package db

import (
	"context"
	"encoding/json"
	"time"

	"yatube/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	DB *gorm.DB
}

type OutboxRepository struct {
	DB *gorm.DB
}

// Follow 幂等关注，真正新建关系时返回 changed=true
func (r *FollowRepository) Follow(ctx context.Context, userID, authorID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "author_id"}},
			DoNothing: true,
		}).Create(&model.Follow{UserID: userID, AuthorID: authorID})
		if res.Error != nil {
			return res.Error
		}
		// 已存在时 DoNothing，不写事件
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventFollow, userID, authorID, nil)
	})
	return changed, err
}

// Unfollow 删除关注关系，不存在时不报错
func (r *FollowRepository) Unfollow(ctx context.Context, userID, authorID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return insertOutbox(tx, model.EventUnfollow, userID, authorID, nil)
	})
	return changed, err
}

// IsFollowing 判断是否关注
func (r *FollowRepository) IsFollowing(ctx context.Context, userID, authorID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountFollowers 粉丝数量
func (r *FollowRepository) CountFollowers(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

// CountFollowings 关注的人数量
func (r *FollowRepository) CountFollowings(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// 插入outbox事件表
func insertOutbox(tx *gorm.DB, event string, actor, target uint64, extra map[string]any) error {
	body := map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"actor":      actor,
		"target":     target,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ob := &model.SocialOutbox{
		EventType: event,
		ActorID:   actor,
		TargetID:  target,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}
	return tx.Create(ob).Error
}

// List 待投递的 outbox 记录
func (r *OutboxRepository) List(ctx context.Context, batchSize int) ([]model.SocialOutbox, error) {
	var list []model.SocialOutbox
	if err := r.DB.WithContext(ctx).
		Where("status = ?", model.OutboxPending).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// RetryUpdate 投递失败，重试次数达到 maxRetry 后标记为失败不再投递
func (r *OutboxRepository) RetryUpdate(ctx context.Context, ob *model.SocialOutbox, maxRetry int) error {
	retry := ob.Retry + 1
	status := model.OutboxPending
	if retry >= maxRetry {
		status = model.OutboxFailed
	}
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", ob.ID).
		Updates(map[string]any{"retry": retry, "status": status}).Error
}

// SuccessUpdate outbox成功记录消息更新
func (r *OutboxRepository) SuccessUpdate(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.SocialOutbox{}).Where("id = ?", id).
		Update("status", model.OutboxSent).Error
}
