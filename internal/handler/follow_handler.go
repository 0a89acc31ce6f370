package handler

import (
	"errors"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/policy"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

// Follow 关注，重复关注和关注自己都是空操作
func (h *FollowHandler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	author, err := h.svc.Author(ctx, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	actor := middleware.Actor(c)
	d := policy.Authorize(actor, policy.Follow, policy.Resource{
		OwnerID:    author.ID,
		Path:       c.Request.URL.RequestURI(),
		DetailPath: profilePath(author.Username),
	})
	if !d.Allowed {
		c.Redirect(http.StatusFound, d.Redirect)
		return
	}
	if _, _, err := h.svc.Follow(ctx, actor.ID, author.Username); err != nil && !errors.Is(err, service.ErrSelfFollow) {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}

// Unfollow 取关
func (h *FollowHandler) Unfollow(c *gin.Context) {
	author, _, err := h.svc.Unfollow(c.Request.Context(), middleware.Actor(c).ID, c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, profilePath(author.Username))
}
