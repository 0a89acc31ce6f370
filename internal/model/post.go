package model

import "time"

const postPreviewLen = 15

type Post struct {
	ID        uint64    `gorm:"primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	AuthorID  uint64    `gorm:"not null;index:idx_author_time,priority:1"`
	Author    User      `gorm:"constraint:OnDelete:CASCADE"`
	GroupID   *uint64   `gorm:"index:idx_group_time,priority:1"`
	Group     *Group    `gorm:"constraint:OnDelete:SET NULL"`
	Image     string    `gorm:"size:255"`
	CreatedAt time.Time `gorm:"index;index:idx_author_time,priority:2;index:idx_group_time,priority:2"`
	UpdatedAt time.Time
}

// String 列表与后台中使用的简短预览
func (p Post) String() string {
	r := []rune(p.Text)
	if len(r) > postPreviewLen {
		return string(r[:postPreviewLen])
	}
	return p.Text
}
