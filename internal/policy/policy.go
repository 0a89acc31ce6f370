package policy

import (
	"net/url"
)

const LoginPath = "/auth/login/"

type Action string

const (
	ViewFeed       Action = "view-feed"
	ViewGroup      Action = "view-group"
	ViewProfile    Action = "view-profile"
	ViewPost       Action = "view-post"
	CreatePost     Action = "create-post"
	EditPost       Action = "edit-post"
	CreateComment  Action = "create-comment"
	Follow         Action = "follow"
	Unfollow       Action = "unfollow"
	ViewFollowFeed Action = "view-follow-feed"
)

type rule int

const (
	public rule = iota
	authenticated
	owner
	notSelf
)

var rules = map[Action]rule{
	ViewFeed:       public,
	ViewGroup:      public,
	ViewProfile:    public,
	ViewPost:       public,
	CreatePost:     authenticated,
	CreateComment:  authenticated,
	Unfollow:       authenticated,
	ViewFollowFeed: authenticated,
	EditPost:       owner,
	Follow:         notSelf,
}

// Actor 发起请求的用户，ID 为 0 表示匿名
type Actor struct {
	ID uint64
}

func (a Actor) Anonymous() bool { return a.ID == 0 }

// Resource 被操作的对象
//
// OwnerID 是帖子作者或被关注的作者；Path 是当前请求的 URI，用于登录后跳回；
// DetailPath 是拒绝时的去处（帖子详情或作者主页）。
type Resource struct {
	OwnerID    uint64
	Path       string
	DetailPath string
}

type Decision struct {
	Allowed  bool
	Redirect string
}

// LoginURL 带 next 参数的登录地址
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// Authorize 判断 actor 能否对 resource 执行 action
func Authorize(actor Actor, action Action, res Resource) Decision {
	r, ok := rules[action]
	if !ok {
		return Decision{}
	}
	if r == public {
		return Decision{Allowed: true}
	}
	if actor.Anonymous() {
		return Decision{Redirect: LoginURL(res.Path)}
	}
	switch r {
	case owner:
		if actor.ID != res.OwnerID {
			return Decision{Redirect: res.DetailPath}
		}
	case notSelf:
		if actor.ID == res.OwnerID {
			return Decision{Redirect: res.DetailPath}
		}
	}
	return Decision{Allowed: true}
}
