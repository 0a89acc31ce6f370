package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"yatube/internal/model"
	"yatube/internal/repository/db"
	"yatube/internal/storage"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/require"
)

var smallGIF, _ = base64.StdEncoding.DecodeString("R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7")

func TestFeedPagination(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	author := testutil.CreateUser(t, gdb, "leo")
	group := testutil.CreateGroup(t, gdb, "cats")
	posts := testutil.CreatePosts(t, gdb, author, group, 13)
	svc := NewPostService(gdb, nil)

	first, err := svc.Feed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	require.Equal(t, int64(13), first.Total)
	require.Equal(t, 2, first.NumPages)
	require.Equal(t, posts[12].ID, first.Items[0].ID)
	require.Equal(t, "leo", first.Items[0].Author.Username)
	require.Equal(t, "cats", first.Items[0].Group.Slug)

	second, err := svc.Feed(ctx, 2)
	require.NoError(t, err)
	require.Len(t, second.Items, 3)
	require.Equal(t, posts[0].ID, second.Items[2].ID)

	beyond, err := svc.Feed(ctx, 99)
	require.NoError(t, err)
	require.Equal(t, 2, beyond.Number)
	require.Len(t, beyond.Items, 3)

	for i := 1; i < len(first.Items); i++ {
		require.False(t, first.Items[i].CreatedAt.After(first.Items[i-1].CreatedAt))
	}
}

func TestGroupAndProfilePagination(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	cats := testutil.CreateGroup(t, gdb, "cats")
	dogs := testutil.CreateGroup(t, gdb, "dogs")
	testutil.CreatePosts(t, gdb, leo, cats, 13)
	testutil.CreatePost(t, gdb, ann, dogs, "other group")
	svc := NewPostService(gdb, nil)

	group, page, err := svc.GroupPosts(ctx, "cats", 2)
	require.NoError(t, err)
	require.Equal(t, cats.ID, group.ID)
	require.Len(t, page.Items, 3)

	_, _, err = svc.GroupPosts(ctx, "missing", 1)
	require.True(t, errors.Is(err, ErrNotFound))

	profile, err := svc.Profile(ctx, "leo", ann.ID, 1)
	require.NoError(t, err)
	require.Len(t, profile.Posts.Items, 10)
	require.Equal(t, int64(13), profile.Posts.Total)
	require.False(t, profile.Following)

	_, err = svc.Profile(ctx, "nobody", 0, 1)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	cats := testutil.CreateGroup(t, gdb, "cats")
	store := storage.NewLocal(t.TempDir(), "/media")
	svc := NewPostService(gdb, store)

	post, err := svc.Create(ctx, leo.ID, PostInput{
		Text:      "  Hello there\n",
		GroupID:   &cats.ID,
		Image:     bytes.NewReader(smallGIF),
		ImageSize: int64(len(smallGIF)),
	})
	require.NoError(t, err)
	require.Equal(t, leo.ID, post.AuthorID)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello there", got.Text)
	require.Equal(t, cats.ID, *got.GroupID)
	require.Contains(t, got.Image, storage.ImagePrefix)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreatePostValidation(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	svc := NewPostService(gdb, storage.NewLocal(t.TempDir(), "/media"))
	missing := uint64(404)

	tests := []struct {
		name  string
		in    PostInput
		field string
	}{
		{"empty text", PostInput{Text: "   "}, "text"},
		{"unknown group", PostInput{Text: "ok", GroupID: &missing}, "group"},
		{"not an image", PostInput{Text: "ok", Image: bytes.NewReader([]byte("plain text")), ImageSize: 10}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, leo.ID, tt.in)
			var fe FieldErrors
			require.True(t, errors.As(err, &fe))
			require.Contains(t, fe, tt.field)
		})
	}

	var n int64
	require.NoError(t, gdb.Model(&model.Post{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	cats := testutil.CreateGroup(t, gdb, "cats")
	post := testutil.CreatePost(t, gdb, leo, cats, "original text")
	svc := NewPostService(gdb, nil)

	_, err := svc.Update(ctx, ann.ID, post.ID, PostInput{Text: "hijacked"})
	require.True(t, errors.Is(err, ErrPermission))

	_, err = svc.Update(ctx, leo.ID, post.ID, PostInput{Text: "edited"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, post.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Text)
	require.Equal(t, leo.ID, got.AuthorID)
	require.Nil(t, got.GroupID)
	require.True(t, got.CreatedAt.Equal(post.CreatedAt))

	_, err = svc.Update(ctx, leo.ID, 999, PostInput{Text: "x"})
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestDetailWithComments(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	post := testutil.CreatePost(t, gdb, leo, nil, "a post")
	comments := NewCommentService(gdb)
	svc := NewPostService(gdb, nil)

	_, err := comments.Create(ctx, ann.ID, post.ID, "first")
	require.NoError(t, err)
	_, err = comments.Create(ctx, leo.ID, post.ID, " second\n")
	require.NoError(t, err)

	_, err = comments.Create(ctx, ann.ID, post.ID, "  ")
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	_, err = comments.Create(ctx, ann.ID, 999, "orphan")
	require.True(t, errors.Is(err, ErrNotFound))

	detail, err := svc.Detail(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	require.Equal(t, "second", detail.Comments[0].Text)
	require.Equal(t, "ann", detail.Comments[1].Author.Username)
	require.Equal(t, int64(1), detail.AuthorPosts)

	var events int64
	require.NoError(t, gdb.Model(&model.SocialOutbox{}).Where("event_type = ?", model.EventComment).Count(&events).Error)
	require.Equal(t, int64(2), events)

	_, err = svc.Detail(ctx, 999)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestDeletionPolicies(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	cats := testutil.CreateGroup(t, gdb, "cats")
	leoPost := testutil.CreatePost(t, gdb, leo, cats, "leo in cats")
	annPost := testutil.CreatePost(t, gdb, ann, cats, "ann in cats")
	_, err := NewCommentService(gdb).Create(ctx, leo.ID, annPost.ID, "leo comments on ann")
	require.NoError(t, err)
	_, err = NewCommentService(gdb).Create(ctx, ann.ID, leoPost.ID, "ann comments on leo")
	require.NoError(t, err)
	_, _, err = NewFollowService(gdb).Follow(ctx, ann.ID, "leo")
	require.NoError(t, err)

	require.NoError(t, NewGroupService(gdb).Delete(ctx, "cats"))
	var orphans []model.Post
	require.NoError(t, gdb.Order("id").Find(&orphans).Error)
	require.Len(t, orphans, 2)
	require.Nil(t, orphans[0].GroupID)
	require.Nil(t, orphans[1].GroupID)

	n, err := NewUserService(gdb, nil, nil, nil).Delete(ctx, "leo")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	var posts []model.Post
	require.NoError(t, gdb.Find(&posts).Error)
	require.Len(t, posts, 1)
	require.Equal(t, annPost.ID, posts[0].ID)

	var comments []model.Comment
	require.NoError(t, gdb.Find(&comments).Error)
	require.Empty(t, comments)

	var follows int64
	require.NoError(t, gdb.Model(&model.Follow{}).Count(&follows).Error)
	require.Zero(t, follows)

	_, err = NewUserService(gdb, nil, nil, nil).Delete(ctx, "leo")
	require.True(t, errors.Is(err, ErrNotFound))
	require.True(t, errors.Is(NewGroupService(gdb).Delete(ctx, "cats"), ErrNotFound))
}

func TestDeleterIgnoresEmptyIDs(t *testing.T) {
	gdb := testutil.NewDB(t)
	n, err := db.NewDeleter(gdb).Delete(context.Background(), db.TablePosts)
	require.NoError(t, err)
	require.Zero(t, n)
}
