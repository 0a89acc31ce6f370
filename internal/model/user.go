package model

import "time"

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:150;not null"`
	DisplayName string `gorm:"size:150"`
	Email       string `gorm:"index;size:254"`
	Password    string `gorm:"size:255;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Name 页面展示用的名字，没有显示名时退回用户名
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
