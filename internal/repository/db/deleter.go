package db

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// OnDelete 父记录被删除时子记录的处理方式
type OnDelete int

const (
	Cascade OnDelete = iota
	SetNull
)

func (p OnDelete) String() string {
	switch p {
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	default:
		return fmt.Sprintf("OnDelete(%d)", int(p))
	}
}

const (
	TableUsers    = "users"
	TableGroups   = "post_groups"
	TablePosts    = "posts"
	TableComments = "comments"
	TableFollows  = "follows"
)

// Relation 子表 Table.Column 引用父表的 id
type Relation struct {
	Table  string
	Column string
	Policy OnDelete
}

// Relations 与模型上的外键约束保持一致
var Relations = map[string][]Relation{
	TableUsers: {
		{Table: TablePosts, Column: "author_id", Policy: Cascade},
		{Table: TableComments, Column: "author_id", Policy: Cascade},
		{Table: TableFollows, Column: "user_id", Policy: Cascade},
		{Table: TableFollows, Column: "author_id", Policy: Cascade},
	},
	TableGroups: {
		{Table: TablePosts, Column: "group_id", Policy: SetNull},
	},
	TablePosts: {
		{Table: TableComments, Column: "post_id", Policy: Cascade},
	},
}

// Deleter 在一个事务里按 Relations 传播删除
type Deleter struct {
	DB        *gorm.DB
	Relations map[string][]Relation
}

func NewDeleter(db *gorm.DB) *Deleter {
	return &Deleter{DB: db, Relations: Relations}
}

// Delete 删除 table 中的 ids，返回父表实际删除的行数
func (d *Deleter) Delete(ctx context.Context, table string, ids ...uint64) (int64, error) {
	var affected int64
	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := d.delete(tx, table, lo.Uniq(ids))
		affected = n
		return err
	})
	return affected, err
}

func (d *Deleter) delete(tx *gorm.DB, table string, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	for _, rel := range d.Relations[table] {
		switch rel.Policy {
		case Cascade:
			var childIDs []uint64
			if err := tx.Table(rel.Table).Where(rel.Column+" IN ?", ids).Pluck("id", &childIDs).Error; err != nil {
				return 0, err
			}
			if _, err := d.delete(tx, rel.Table, lo.Uniq(childIDs)); err != nil {
				return 0, err
			}
		case SetNull:
			if err := tx.Exec("UPDATE "+rel.Table+" SET "+rel.Column+" = NULL WHERE "+rel.Column+" IN ?", ids).Error; err != nil {
				return 0, err
			}
		default:
			return 0, fmt.Errorf("unsupported delete policy %s on %s.%s", rel.Policy, rel.Table, rel.Column)
		}
	}
	res := tx.Exec("DELETE FROM "+table+" WHERE id IN ?", ids)
	return res.RowsAffected, res.Error
}
