package handler

import (
	"errors"
	"net/http"

	"yatube/internal/middleware"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc *service.CommentService
}

func NewCommentHandler(svc *service.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Add 发表评论，空内容直接回到详情页
func (h *CommentHandler) Add(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		NotFound(c)
		return
	}
	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusFound, postPath(id))
		return
	}
	_, err := h.svc.Create(c.Request.Context(), middleware.Actor(c).ID, id, form.Text)
	var fe service.FieldErrors
	if err != nil && !errors.As(err, &fe) {
		fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, postPath(id))
}
