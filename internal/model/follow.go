package model

import "time"

// Follow UserID 关注了 AuthorID，(user_id, author_id) 唯一
type Follow struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_follow_user_author,priority:1"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint64 `gorm:"not null;index;uniqueIndex:uk_follow_user_author,priority:2"`
	Author    User   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName sets table name for Follow
func (Follow) TableName() string {
	return "follows"
}

const (
	EventFollow   = "follow"
	EventUnfollow = "unfollow"
	EventComment  = "comment"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// SocialOutbox 社交事件表，和业务写入在同一个事务里
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"`
	ActorID   uint64 `gorm:"not null"`
	TargetID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }
