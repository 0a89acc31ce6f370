package handler

import (
	"errors"
	"net/http"
	"strconv"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

// render 所有页面都带上当前用户和标题
func render(c *gin.Context, status int, name, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["user"]; !ok {
		data["user"] = middleware.CurrentUser(c)
	}
	data["title"] = title
	c.HTML(status, name, data)
}

// NotFound 404 页面，也用作 NoRoute
func NotFound(c *gin.Context) {
	render(c, http.StatusNotFound, "404.html", "Page not found", gin.H{"path": c.Request.URL.Path})
}

func serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	render(c, http.StatusInternalServerError, "500.html", "Server error", nil)
}

// fail 把 service 错误映射到页面
func fail(c *gin.Context, err error) {
	if errors.Is(err, service.ErrNotFound) {
		NotFound(c)
		return
	}
	serverError(c, err)
}

func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func postPath(id uint64) string {
	return "/posts/" + strconv.FormatUint(id, 10) + "/"
}

func profilePath(username string) string {
	return "/profile/" + username + "/"
}
