package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ogurasousui/daily-report/internal/core/auth"
	"go.uber.org/zap"
)

// AuthHandler はログイン・ログアウトを提供します。
type AuthHandler struct {
	authn    Authenticator
	sessions *cookieSession
	logger   *zap.Logger
}

func newAuthHandler(authn Authenticator, sessions *cookieSession, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, sessions: sessions, logger: logger}
}

// LoginForm はログイン画面を表示します。
func (h *AuthHandler) LoginForm(c *gin.Context) {
	h.renderLogin(c, http.StatusOK, loginForm{}, nil, "")
}

// Login は社員番号とパスワードを検証し、セッション Cookie を発行します。
func (h *AuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		errs, ok := fieldErrors(err)
		if !ok {
			renderError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		h.renderLogin(c, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	p, err := h.authn.Authenticate(c.Request.Context(), form.Code, form.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.renderLogin(c, http.StatusUnauthorized, form, nil, msgInvalidCredentials)
			return
		}
		respondFailure(c, h.logger, err, nil)
		return
	}

	if err := h.sessions.start(c, p); err != nil {
		respondFailure(c, h.logger, err, nil)
		return
	}

	h.logger.Info("employee logged in", zap.String("employee_code", p.Code))
	c.Redirect(http.StatusFound, "/reports")
}

// Logout はセッションを失効させてログイン画面に戻します。
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.end(c); err != nil {
		h.logger.Warn("failed to revoke session", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form loginForm, errs map[string]string, message string) {
	form.Password = ""
	render(c, status, "login", gin.H{
		"Title":  "ログイン",
		"Form":   form,
		"Errors": nonNilErrors(errs),
		"Error":  message,
	})
}
