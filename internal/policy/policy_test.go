package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	anon := Actor{}
	author := Actor{ID: 1}
	other := Actor{ID: 2}
	post := Resource{OwnerID: 1, Path: "/posts/5/edit/", DetailPath: "/posts/5/"}
	profile := Resource{OwnerID: 1, Path: "/profile/leo/follow/", DetailPath: "/profile/leo/"}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		res    Resource
		want   Decision
	}{
		{"anon views feed", anon, ViewFeed, Resource{}, Decision{Allowed: true}},
		{"anon views group", anon, ViewGroup, Resource{}, Decision{Allowed: true}},
		{"anon views profile", anon, ViewProfile, Resource{}, Decision{Allowed: true}},
		{"anon views post", anon, ViewPost, Resource{}, Decision{Allowed: true}},
		{"anon creates post", anon, CreatePost, Resource{Path: "/create/"}, Decision{Redirect: "/auth/login/?next=%2Fcreate%2F"}},
		{"user creates post", other, CreatePost, Resource{Path: "/create/"}, Decision{Allowed: true}},
		{"anon comments", anon, CreateComment, Resource{Path: "/posts/5/comment/"}, Decision{Redirect: "/auth/login/?next=%2Fposts%2F5%2Fcomment%2F"}},
		{"user comments", other, CreateComment, Resource{}, Decision{Allowed: true}},
		{"anon edits", anon, EditPost, post, Decision{Redirect: "/auth/login/?next=%2Fposts%2F5%2Fedit%2F"}},
		{"author edits", author, EditPost, post, Decision{Allowed: true}},
		{"non-author edits", other, EditPost, post, Decision{Redirect: "/posts/5/"}},
		{"anon follows", anon, Follow, profile, Decision{Redirect: "/auth/login/?next=%2Fprofile%2Fleo%2Ffollow%2F"}},
		{"user follows", other, Follow, profile, Decision{Allowed: true}},
		{"self follow", author, Follow, profile, Decision{Redirect: "/profile/leo/"}},
		{"anon unfollows", anon, Unfollow, Resource{Path: "/profile/leo/unfollow/"}, Decision{Redirect: "/auth/login/?next=%2Fprofile%2Fleo%2Funfollow%2F"}},
		{"user unfollows", other, Unfollow, profile, Decision{Allowed: true}},
		{"anon follow feed", anon, ViewFollowFeed, Resource{Path: "/follow/?page=2"}, Decision{Redirect: "/auth/login/?next=%2Ffollow%2F%3Fpage%3D2"}},
		{"user follow feed", other, ViewFollowFeed, Resource{}, Decision{Allowed: true}},
		{"unknown action", author, Action("delete-post"), post, Decision{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Authorize(tt.actor, tt.action, tt.res))
		})
	}
}

func TestLoginURLWithoutNext(t *testing.T) {
	require.Equal(t, LoginPath, LoginURL(""))
}
