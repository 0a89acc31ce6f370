package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"yatube/internal/model"
	"yatube/internal/repository/db"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 每个测试一个独立的内存 SQLite，已建表
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(db.DriverSQLite, "file::memory:?_pragma=foreign_keys(1)", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

// NewRedis miniredis 上的客户端
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

var seq atomic.Uint64

func CreateUser(t testing.TB, gdb *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-hash",
	}
	require.NoError(t, gdb.WithContext(context.Background()).Create(u).Error)
	return u
}

func CreateGroup(t testing.TB, gdb *gorm.DB, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	require.NoError(t, gdb.Create(g).Error)
	return g
}

// CreatePost created_at 严格递增，保证排序可预测
func CreatePost(t testing.TB, gdb *gorm.DB, author *model.User, group *model.Group, text string) *model.Post {
	t.Helper()
	n := seq.Add(1)
	p := &model.Post{
		Text:      text,
		AuthorID:  author.ID,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Minute),
	}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func CreatePosts(t testing.TB, gdb *gorm.DB, author *model.User, group *model.Group, count int) []*model.Post {
	t.Helper()
	posts := make([]*model.Post, 0, count)
	for i := 0; i < count; i++ {
		posts = append(posts, CreatePost(t, gdb, author, group, fmt.Sprintf("post number %d", i)))
	}
	return posts
}
