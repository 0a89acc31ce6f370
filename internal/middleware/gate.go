package middleware

import (
	"net/http"

	"yatube/internal/policy"

	"github.com/gin-gonic/gin"
)

// Gate 匿名用户访问需要登录的 action 时跳转登录页，带上 next
//
// 作者本人之类的判断要先加载资源，由 handler 调用 policy.Authorize 完成。
func Gate(action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := Actor(c)
		if actor.Anonymous() {
			d := policy.Authorize(actor, action, policy.Resource{Path: c.Request.URL.RequestURI()})
			if !d.Allowed {
				c.Redirect(http.StatusFound, d.Redirect)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}
