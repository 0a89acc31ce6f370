package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"yatube/internal/model"
	"yatube/internal/repository/db"
	"yatube/internal/storage"

	"gorm.io/gorm"
)

type PostService struct {
	posts    *db.PostRepository
	groups   *db.GroupRepository
	users    *db.UserRepository
	follows  *db.FollowRepository
	comments *db.CommentRepository
	images   storage.ImageStore
}

func NewPostService(gdb *gorm.DB, images storage.ImageStore) *PostService {
	return &PostService{
		posts:    &db.PostRepository{DB: gdb},
		groups:   &db.GroupRepository{DB: gdb},
		users:    &db.UserRepository{DB: gdb},
		follows:  &db.FollowRepository{DB: gdb},
		comments: &db.CommentRepository{DB: gdb},
		images:   images,
	}
}

// PostInput 新建和编辑共用的表单数据
type PostInput struct {
	Text      string
	GroupID   *uint64
	Image     io.ReadSeeker
	ImageSize int64
}

type Profile struct {
	Author     *model.User
	Posts      Page[model.Post]
	Following  bool
	Followers  int64
	Followings int64
}

type PostDetail struct {
	Post        *model.Post
	Comments    []model.Comment
	AuthorPosts int64
}

func (s *PostService) list(ctx context.Context, scope db.Scope, number int) (Page[model.Post], error) {
	total, err := s.posts.Count(ctx, scope)
	if err != nil {
		return Page[model.Post]{}, err
	}
	page := newPage[model.Post](number, total)
	if total == 0 {
		return page, nil
	}
	page.Items, err = s.posts.List(ctx, scope, page.offset(), PageSize)
	if err != nil {
		return Page[model.Post]{}, err
	}
	return page, nil
}

// Feed 首页，全部帖子
func (s *PostService) Feed(ctx context.Context, number int) (Page[model.Post], error) {
	return s.list(ctx, db.All, number)
}

// GroupPosts 某个分组下的帖子
func (s *PostService) GroupPosts(ctx context.Context, slug string, number int) (*model.Group, Page[model.Post], error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, Page[model.Post]{}, notFound(err)
	}
	page, err := s.list(ctx, db.ByGroup(group.ID), number)
	return group, page, err
}

// Profile 作者主页，viewerID 为 0 表示匿名
func (s *PostService) Profile(ctx context.Context, username string, viewerID uint64, number int) (*Profile, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	page, err := s.list(ctx, db.ByAuthor(author.ID), number)
	if err != nil {
		return nil, err
	}
	p := &Profile{Author: author, Posts: page}
	if viewerID != 0 && viewerID != author.ID {
		if p.Following, err = s.follows.IsFollowing(ctx, viewerID, author.ID); err != nil {
			return nil, err
		}
	}
	if p.Followers, err = s.follows.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if p.Followings, err = s.follows.CountFollowings(ctx, author.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// FollowFeed 关注的作者的帖子
func (s *PostService) FollowFeed(ctx context.Context, userID uint64, number int) (Page[model.Post], error) {
	return s.list(ctx, db.FollowedBy(userID), number)
}

// Detail 帖子详情和评论
func (s *PostService) Detail(ctx context.Context, id uint64) (*PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.Count(ctx, db.ByAuthor(post.AuthorID))
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPosts: count}, nil
}

func (s *PostService) Get(ctx context.Context, id uint64) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

// Groups 表单下拉框
func (s *PostService) Groups(ctx context.Context) ([]model.Group, error) {
	return s.groups.List(ctx)
}

// Create 作者永远是当前登录用户
func (s *PostService) Create(ctx context.Context, authorID uint64, in PostInput) (*model.Post, error) {
	post := &model.Post{AuthorID: authorID}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update 只有作者能改，作者和发布时间保持不变
func (s *PostService) Update(ctx context.Context, actorID, postID uint64, in PostInput) (*model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, notFound(err)
	}
	if post.AuthorID != actorID {
		return nil, ErrPermission
	}
	if err := s.apply(ctx, post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// apply 校验表单并写入 post，图片在其它字段都合法后才上传
func (s *PostService) apply(ctx context.Context, post *model.Post, in PostInput) error {
	errs := FieldErrors{}
	text := strings.TrimSpace(in.Text)
	if text == "" {
		errs.Add("text", "This field is required.")
	}
	if in.GroupID != nil {
		if _, err := s.groups.FindByID(ctx, *in.GroupID); err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			errs.Add("group", "Select a valid choice.")
		}
	}
	if err := errs.Err(); err != nil {
		return err
	}

	var image string
	if in.Image != nil && s.images != nil {
		key, err := storage.Upload(ctx, s.images, in.Image, in.ImageSize)
		if errors.Is(err, storage.ErrNotImage) {
			errs.Add("image", "Upload a valid image.")
			return errs
		}
		if err != nil {
			return err
		}
		image = key
	}

	post.Text = text
	post.GroupID = in.GroupID
	post.Group = nil
	if image != "" {
		post.Image = image
	}
	return nil
}
