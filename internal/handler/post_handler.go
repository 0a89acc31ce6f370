package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/policy"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// Index 首页
func (h *PostHandler) Index(c *gin.Context) {
	page, err := h.svc.Feed(c.Request.Context(), service.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "index.html", "Latest updates", gin.H{"page": page})
}

// GroupPosts 分组页
func (h *PostHandler) GroupPosts(c *gin.Context) {
	group, page, err := h.svc.GroupPosts(c.Request.Context(), c.Param("slug"), service.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "group_list.html", group.Title, gin.H{"group": group, "page": page})
}

// Profile 作者主页
func (h *PostHandler) Profile(c *gin.Context) {
	p, err := h.svc.Profile(c.Request.Context(), c.Param("username"), middleware.Actor(c).ID, service.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "profile.html", "Profile of "+p.Author.Name(), gin.H{
		"author":     p.Author,
		"page":       p.Posts,
		"following":  p.Following,
		"followers":  p.Followers,
		"followings": p.Followings,
	})
}

// Detail 帖子详情
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return
	}
	d, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "post_detail.html", "Post "+d.Post.String(), gin.H{
		"post":        d.Post,
		"comments":    d.Comments,
		"authorPosts": d.AuthorPosts,
	})
}

// FollowIndex 关注的作者的帖子
func (h *PostHandler) FollowIndex(c *gin.Context) {
	page, err := h.svc.FollowFeed(c.Request.Context(), middleware.Actor(c).ID, service.ParsePage(c.Query("page")))
	if err != nil {
		fail(c, err)
		return
	}
	render(c, http.StatusOK, "follow.html", "Following", gin.H{"page": page})
}

func (h *PostHandler) renderForm(c *gin.Context, form PostForm, errs service.FieldErrors, post *model.Post) {
	groups, err := h.svc.Groups(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	if errs == nil {
		errs = service.FieldErrors{}
	}
	data := gin.H{"form": form, "errors": errs, "groups": groups, "isEdit": post != nil}
	title := "New post"
	if post != nil {
		data["postID"] = post.ID
		title = "Edit post"
	}
	render(c, http.StatusOK, "create_post.html", title, data)
}

// bindPost 表单和上传的图片，调用方负责关闭文件
func bindPost(c *gin.Context) (PostForm, service.PostInput, multipart.File, error) {
	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		return form, service.PostInput{}, nil, err
	}
	in := service.PostInput{Text: form.Text, GroupID: form.GroupID()}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, in, nil, nil
	}
	if err != nil {
		return form, in, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return form, in, nil, err
	}
	in.Image = f
	in.ImageSize = fh.Size
	return form, in, f, nil
}

// CreatePage 新建帖子表单
func (h *PostHandler) CreatePage(c *gin.Context) {
	h.renderForm(c, PostForm{}, nil, nil)
}

// Create 作者取当前登录用户，不接受表单传入
func (h *PostHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	form, in, f, err := bindPost(c)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		h.renderForm(c, form, bindErrors(err), nil)
		return
	}
	_, err = h.svc.Create(c.Request.Context(), user.ID, in)
	var fe service.FieldErrors
	if errors.As(err, &fe) {
		h.renderForm(c, form, fe, nil)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(user.Username))
}

// authorizeEdit 非作者静默跳回详情页
func (h *PostHandler) authorizeEdit(c *gin.Context) (*model.Post, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return nil, false
	}
	post, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	d := policy.Authorize(middleware.Actor(c), policy.EditPost, policy.Resource{
		OwnerID:    post.AuthorID,
		Path:       c.Request.URL.RequestURI(),
		DetailPath: postPath(post.ID),
	})
	if !d.Allowed {
		c.Redirect(http.StatusFound, d.Redirect)
		return nil, false
	}
	return post, true
}

// EditPage 编辑表单，带上原来的内容
func (h *PostHandler) EditPage(c *gin.Context) {
	post, ok := h.authorizeEdit(c)
	if !ok {
		return
	}
	form := PostForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = strconv.FormatUint(*post.GroupID, 10)
	}
	h.renderForm(c, form, nil, post)
}

// Edit 保存编辑
func (h *PostHandler) Edit(c *gin.Context) {
	post, ok := h.authorizeEdit(c)
	if !ok {
		return
	}
	form, in, f, err := bindPost(c)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		h.renderForm(c, form, bindErrors(err), post)
		return
	}
	_, err = h.svc.Update(c.Request.Context(), middleware.Actor(c).ID, post.ID, in)
	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		h.renderForm(c, form, fe, post)
		return
	case errors.Is(err, service.ErrPermission):
		c.Redirect(http.StatusFound, postPath(post.ID))
		return
	case err != nil:
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postPath(post.ID))
}
