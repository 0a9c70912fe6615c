package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/daily-report/internal/adapters/session"
	"github.com/ogurasousui/daily-report/internal/core/auth"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"go.uber.org/zap"
)

const principalKey = "principal"

// PrincipalFrom はリクエストのログイン社員を返します。
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func currentPrincipal(c *gin.Context) auth.Principal {
	p, _ := PrincipalFrom(c)
	return p
}

// RequestLogger はリクエストごとにアクセスログを出力します。
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if p, ok := PrincipalFrom(c); ok {
			fields = append(fields, zap.String("employee_code", p.Code))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}

// Recovery は panic を捕捉してエラーページを返します。
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		renderError(c, http.StatusInternalServerError, msgInternal)
		c.Abort()
	})
}

// Authenticator はログイン認証とセッションからの社員解決を行います。
type Authenticator interface {
	Authenticate(ctx context.Context, code, password string) (auth.Principal, error)
	Resolve(ctx context.Context, code string) (auth.Principal, error)
}

func requireLogin(sessions *cookieSession, authn Authenticator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := sessions.current(c)
		if err != nil {
			if !errors.Is(err, session.ErrInvalidToken) && !errors.Is(err, session.ErrRevoked) {
				logger.Error("failed to check session", zap.Error(err))
				renderError(c, http.StatusInternalServerError, msgInternal)
				c.Abort()
				return
			}
			sessions.clear(c)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		p, err := authn.Resolve(c.Request.Context(), tok.Code)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, auth.ErrUnauthenticated) {
				sessions.clear(c)
				c.Redirect(http.StatusFound, "/login")
				c.Abort()
				return
			}
			logger.Error("failed to resolve principal", zap.String("employee_code", tok.Code), zap.Error(err))
			renderError(c, http.StatusInternalServerError, msgInternal)
			c.Abort()
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequireRole は指定した権限を持たないログイン社員を 403 で拒否します。
func RequireRole(role employee.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if p.Role != role {
			renderError(c, http.StatusForbidden, msgForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
