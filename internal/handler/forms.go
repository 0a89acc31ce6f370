package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"yatube/internal/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type PostForm struct {
	Text  string `form:"text"`
	Group string `form:"group"`
}

// GroupID 空值表示不选分组，非法值交给 service 校验
func (f PostForm) GroupID() *uint64 {
	if f.Group == "" {
		return nil
	}
	id, err := strconv.ParseUint(f.Group, 10, 64)
	if err != nil {
		id = 0
	}
	return &id
}

type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

type SignupForm struct {
	Username    string `form:"username" binding:"required,max=150"`
	DisplayName string `form:"display_name" binding:"max=150"`
	Email       string `form:"email" binding:"omitempty,email"`
	Password    string `form:"password" binding:"required"`
}

type ResetForm struct {
	Email string `form:"email" binding:"required,email"`
}

type ResetConfirmForm struct {
	Email       string `form:"email" binding:"required,email"`
	Code        string `form:"code" binding:"required,len=6,numeric"`
	NewPassword string `form:"new_password" binding:"required"`
}

func init() {
	// 校验错误里的字段名用 form tag，和模板里的名字一致
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

var validationMessages = map[string]string{
	"required": "This field is required.",
	"email":    "Enter a valid email address.",
	"max":      "Ensure this value is not too long.",
	"len":      "Enter a valid code.",
	"numeric":  "Enter a valid code.",
}

// bindErrors 把 gin 绑定错误转成页面上的字段错误
func bindErrors(err error) service.FieldErrors {
	errs := service.FieldErrors{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs.Add("all", "Invalid form.")
		return errs
	}
	for _, fe := range ve {
		msg, ok := validationMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		errs.Add(fe.Field(), msg)
	}
	return errs
}

// safeNext 只允许站内跳转
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
