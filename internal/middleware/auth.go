package middleware

import (
	"context"
	"strings"

	"yatube/internal/model"
	"yatube/internal/policy"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextUserKey   = "user"
	TokenCookie      = "yatube_token"
)

// Authenticator 校验 token 返回对应用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	token, err := c.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return token
}

// AuthMiddleware 有合法 token 就注入用户，否则按匿名继续
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			c.Next()
			return
		}
		user, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			// 过期或被顶掉的 token 直接清掉
			c.SetCookie(TokenCookie, "", -1, "/", "", false, true)
			c.Next()
			return
		}
		c.Set(ContextUserIDKey, user.ID)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 当前登录用户，匿名时为 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func Actor(c *gin.Context) policy.Actor {
	return policy.Actor{ID: c.GetUint64(ContextUserIDKey)}
}
