package model

import "time"

type Group struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;size:50;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName groups 在 MySQL 8 中是保留字
func (Group) TableName() string {
	return "post_groups"
}

func (g Group) String() string {
	return g.Title
}
