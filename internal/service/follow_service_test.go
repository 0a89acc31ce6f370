package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"yatube/internal/model"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/require"
)

func countFollows(t *testing.T, svc *FollowService) int64 {
	t.Helper()
	var n int64
	err := svc.repo.DB.WithContext(context.Background()).Model(&model.Follow{}).Count(&n).Error
	require.NoError(t, err)
	return n
}

func TestFollowUnfollow(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	svc := NewFollowService(gdb)

	author, changed, err := svc.Follow(ctx, ann.ID, "leo")
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, leo.ID, author.ID)
	require.Equal(t, int64(1), countFollows(t, svc))

	_, changed, err = svc.Follow(ctx, ann.ID, "leo")
	require.NoError(t, err)
	require.False(t, changed)
	require.Equal(t, int64(1), countFollows(t, svc))

	_, changed, err = svc.Unfollow(ctx, ann.ID, "leo")
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, int64(0), countFollows(t, svc))

	_, changed, err = svc.Unfollow(ctx, ann.ID, "leo")
	require.NoError(t, err)
	require.False(t, changed)

	var events []model.SocialOutbox
	require.NoError(t, gdb.Order("id").Find(&events).Error)
	require.Len(t, events, 2)
	require.Equal(t, model.EventFollow, events[0].EventType)
	require.Equal(t, model.EventUnfollow, events[1].EventType)
	require.Equal(t, ann.ID, events[0].ActorID)
	require.Equal(t, leo.ID, events[0].TargetID)
}

func TestFollowSelfAndUnknown(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	leo := testutil.CreateUser(t, gdb, "leo")
	svc := NewFollowService(gdb)

	_, _, err := svc.Follow(ctx, leo.ID, "leo")
	require.True(t, errors.Is(err, ErrSelfFollow))
	require.Zero(t, countFollows(t, svc))

	_, _, err = svc.Follow(ctx, leo.ID, "ghost")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestFollowFeed(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	author := testutil.CreateUser(t, gdb, "author")
	follower := testutil.CreateUser(t, gdb, "follower")
	stranger := testutil.CreateUser(t, gdb, "stranger")
	follows := NewFollowService(gdb)
	posts := NewPostService(gdb, nil)

	_, _, err := follows.Follow(ctx, follower.ID, "author")
	require.NoError(t, err)
	post := testutil.CreatePost(t, gdb, author, nil, "for followers")

	feed, err := posts.FollowFeed(ctx, follower.ID, 1)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	require.Equal(t, post.ID, feed.Items[0].ID)

	feed, err = posts.FollowFeed(ctx, stranger.ID, 1)
	require.NoError(t, err)
	require.Empty(t, feed.Items)

	profile, err := posts.Profile(ctx, "author", follower.ID, 1)
	require.NoError(t, err)
	require.True(t, profile.Following)
	require.Equal(t, int64(1), profile.Followers)
}

func TestOutboxRelayer(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	_, _, err := NewFollowService(gdb).Follow(ctx, ann.ID, "leo")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	fail := true
	var delivered []string
	relayer := NewOutboxRelayer(gdb, func(ctx context.Context, ob *model.SocialOutbox) error {
		if fail {
			return errors.New("broker down")
		}
		delivered = append(delivered, ob.EventType)
		return nil
	}, logger)

	require.Zero(t, relayer.drainOnce(ctx))
	var ob model.SocialOutbox
	require.NoError(t, gdb.First(&ob).Error)
	require.Equal(t, model.OutboxPending, ob.Status)
	require.Equal(t, 1, ob.Retry)

	fail = false
	require.Equal(t, 1, relayer.drainOnce(ctx))
	require.Equal(t, []string{model.EventFollow}, delivered)
	require.NoError(t, gdb.First(&ob).Error)
	require.Equal(t, model.OutboxSent, ob.Status)

	require.Zero(t, relayer.drainOnce(ctx))
}

func TestOutboxRelayerGivesUp(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, "leo")
	ann := testutil.CreateUser(t, gdb, "ann")
	_, _, err := NewFollowService(gdb).Follow(ctx, ann.ID, "leo")
	require.NoError(t, err)

	relayer := NewOutboxRelayer(gdb, func(context.Context, *model.SocialOutbox) error {
		return errors.New("broker down")
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < relayer.maxRetry; i++ {
		relayer.drainOnce(ctx)
	}

	var ob model.SocialOutbox
	require.NoError(t, gdb.First(&ob).Error)
	require.Equal(t, model.OutboxFailed, ob.Status)
	require.Equal(t, relayer.maxRetry, ob.Retry)
}
