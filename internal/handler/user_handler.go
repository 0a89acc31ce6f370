package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"yatube/internal/middleware"
	"yatube/internal/model"
	"yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	svc        *service.UserService
	sessionTTL time.Duration
}

func NewUserHandler(svc *service.UserService, sessionTTL time.Duration) *UserHandler {
	return &UserHandler{svc: svc, sessionTTL: sessionTTL}
}

func (h *UserHandler) renderSignup(c *gin.Context, form SignupForm, errs service.FieldErrors) {
	render(c, http.StatusOK, "signup.html", "Sign up", gin.H{"form": form, "errors": errs})
}

// SignupPage 注册页
func (h *UserHandler) SignupPage(c *gin.Context) {
	h.renderSignup(c, SignupForm{}, service.FieldErrors{})
}

// Signup 注册接口
func (h *UserHandler) Signup(c *gin.Context) {
	var form SignupForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSignup(c, form, bindErrors(err))
		return
	}
	_, err := h.svc.Register(c.Request.Context(), service.SignupInput{
		Username:    form.Username,
		DisplayName: form.DisplayName,
		Email:       form.Email,
		Password:    form.Password,
	})
	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		h.renderSignup(c, form, fe)
		return
	case errors.Is(err, service.ErrUsernameTaken):
		h.renderSignup(c, form, service.FieldErrors{"username": "A user with that username already exists."})
		return
	case errors.Is(err, service.ErrEmailTaken):
		h.renderSignup(c, form, service.FieldErrors{"email": "A user with that email already exists."})
		return
	case err != nil:
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *UserHandler) renderLogin(c *gin.Context, form LoginForm, errs service.FieldErrors) {
	render(c, http.StatusOK, "login.html", "Log in", gin.H{"form": form, "errors": errs, "next": form.Next})
}

// LoginPage 登录页，保留 next
func (h *UserHandler) LoginPage(c *gin.Context) {
	h.renderLogin(c, LoginForm{Next: c.Query("next")}, service.FieldErrors{})
}

// Login 登录接口，token 写入 cookie
func (h *UserHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderLogin(c, form, bindErrors(err))
		return
	}
	token, _, err := h.svc.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.renderLogin(c, form, service.FieldErrors{"all": "Please enter a correct username and password."})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.sessionTTL.Seconds()), "/", "", false, true)
	c.Redirect(http.StatusFound, safeNext(form.Next))
}

// Logout 退出登录
func (h *UserHandler) Logout(c *gin.Context) {
	if user := middleware.CurrentUser(c); user != nil {
		if err := h.svc.Logout(c.Request.Context(), user.ID); err != nil {
			serverError(c, err)
			return
		}
	}
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", false, true)
	render(c, http.StatusOK, "logged_out.html", "Logged out", gin.H{"user": (*model.User)(nil)})
}

// ResetPage 忘记密码
func (h *UserHandler) ResetPage(c *gin.Context) {
	render(c, http.StatusOK, "password_reset.html", "Reset password", gin.H{"form": ResetForm{}, "errors": service.FieldErrors{}})
}

// Reset 发送验证码
func (h *UserHandler) Reset(c *gin.Context) {
	var form ResetForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "password_reset.html", "Reset password", gin.H{"form": form, "errors": bindErrors(err)})
		return
	}
	if err := h.svc.RequestReset(c.Request.Context(), form.Email); err != nil {
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/auth/password_reset/confirm/?"+url.Values{"email": {form.Email}}.Encode())
}

func (h *UserHandler) renderConfirm(c *gin.Context, form ResetConfirmForm, errs service.FieldErrors) {
	render(c, http.StatusOK, "password_reset_confirm.html", "New password", gin.H{"form": form, "errors": errs})
}

// ResetConfirmPage 输入验证码和新密码
func (h *UserHandler) ResetConfirmPage(c *gin.Context) {
	h.renderConfirm(c, ResetConfirmForm{Email: c.Query("email")}, service.FieldErrors{})
}

// ResetConfirm 校验验证码并修改密码
func (h *UserHandler) ResetConfirm(c *gin.Context) {
	var form ResetConfirmForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderConfirm(c, form, bindErrors(err))
		return
	}
	err := h.svc.ResetPassword(c.Request.Context(), form.Email, form.Code, form.NewPassword)
	var fe service.FieldErrors
	switch {
	case errors.As(err, &fe):
		h.renderConfirm(c, form, fe)
		return
	case errors.Is(err, service.ErrInvalidCode), errors.Is(err, service.ErrNotFound):
		h.renderConfirm(c, form, service.FieldErrors{"code": "The code is invalid or has expired."})
		return
	case err != nil:
		serverError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/auth/login/")
}
