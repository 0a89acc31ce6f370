package router

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"yatube/internal/cache"
	"yatube/internal/handler"
	"yatube/internal/middleware"
	"yatube/internal/policy"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	Posts    *service.PostService
	Comments *service.CommentService
	Follows  *service.FollowService
	Users    *service.UserService

	Images       storage.ImageStore
	PageCache    cache.PageCache
	PageCacheTTL time.Duration
	SessionTTL   time.Duration

	// MediaDir 非空时由本服务提供本地图片
	MediaDir string
	MediaURL string

	Logger *slog.Logger
}

func InitRouter(opts Options) (*gin.Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pageCache := opts.PageCache
	if pageCache == nil {
		pageCache = cache.NewMemoryCache()
	}
	ttl := opts.PageCacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	imageURL := func(key string) string { return key }
	if opts.Images != nil {
		imageURL = opts.Images.URL
	}

	tmpl, err := web.Templates(imageURL)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.With("component", "http")))
	r.Use(middleware.AuthMiddleware(opts.Users))

	post := handler.NewPostHandler(opts.Posts)
	comment := handler.NewCommentHandler(opts.Comments)
	follow := handler.NewFollowHandler(opts.Follows)
	user := handler.NewUserHandler(opts.Users, opts.SessionTTL)
	both := []string{http.MethodGet, http.MethodPost}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 首页走页面缓存
	r.GET("/", middleware.CachePage(pageCache, ttl, logger.With("component", "cache")), post.Index)
	r.GET("/group/:slug/", post.GroupPosts)
	r.GET("/follow/", middleware.Gate(policy.ViewFollowFeed), post.FollowIndex)

	profileGroup := r.Group("/profile/:username")
	{
		profileGroup.GET("/", post.Profile)
		profileGroup.Match(both, "/follow/", middleware.Gate(policy.Follow), follow.Follow)
		profileGroup.Match(both, "/unfollow/", middleware.Gate(policy.Unfollow), follow.Unfollow)
	}

	r.GET("/create/", middleware.Gate(policy.CreatePost), post.CreatePage)
	r.POST("/create/", middleware.Gate(policy.CreatePost), post.Create)

	postGroup := r.Group("/posts/:id")
	{
		postGroup.GET("/", post.Detail)
		postGroup.GET("/edit/", middleware.Gate(policy.EditPost), post.EditPage)
		postGroup.POST("/edit/", middleware.Gate(policy.EditPost), post.Edit)
		postGroup.POST("/comment/", middleware.Gate(policy.CreateComment), comment.Add)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/signup/", user.SignupPage)
		authGroup.POST("/signup/", user.Signup)
		authGroup.GET("/login/", user.LoginPage)
		authGroup.POST("/login/", user.Login)
		authGroup.Match(both, "/logout/", user.Logout)
		authGroup.GET("/password_reset/", user.ResetPage)
		authGroup.POST("/password_reset/", user.Reset)
		authGroup.GET("/password_reset/confirm/", user.ResetConfirmPage)
		authGroup.POST("/password_reset/confirm/", user.ResetConfirm)
	}

	if opts.MediaDir != "" {
		mediaURL := opts.MediaURL
		if mediaURL == "" {
			mediaURL = "/media"
		}
		r.Static(mediaURL, opts.MediaDir)
	}

	r.NoRoute(handler.NotFound)
	return r, nil
}
