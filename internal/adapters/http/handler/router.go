package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/daily-report/internal/adapters/session"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"github.com/ogurasousui/daily-report/internal/core/report"
	"go.uber.org/zap"
)

// Dependencies はルーター構築に必要な依存です。
type Dependencies struct {
	Employees    employee.UseCase
	Reports      report.UseCase
	Auth         Authenticator
	Tokens       *session.Issuer
	Revocations  session.RevocationStore
	CookieName   string
	SecureCookie bool
	Logger       *zap.Logger
}

// NewRouter は画面のルーティングを構築します。
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("handler: parse templates: %w", err)
	}

	sessions := &cookieSession{
		tokens: deps.Tokens,
		store:  deps.Revocations,
		name:   deps.CookieName,
		secure: deps.SecureCookie,
	}

	authHandler := newAuthHandler(deps.Auth, sessions, logger)
	employeeHandler := NewEmployeeHandler(deps.Employees, logger)
	reportHandler := NewReportHandler(deps.Reports, logger)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(Recovery(logger), RequestLogger(logger))

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/reports")
	})
	r.GET("/login", authHandler.LoginForm)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	authed := r.Group("/", requireLogin(sessions, deps.Auth, logger))

	reports := authed.Group("/reports")
	{
		reports.GET("", reportHandler.List)
		reports.GET("/export", reportHandler.Export)
		reports.GET("/add", reportHandler.NewForm)
		reports.POST("/add", reportHandler.Create)
		reports.GET("/:id/", reportHandler.Detail)
		reports.GET("/:id/update", reportHandler.EditForm)
		reports.POST("/:id/update", reportHandler.Update)
		reports.POST("/:id/delete", reportHandler.Delete)
	}

	employees := authed.Group("/employees", RequireRole(employee.RoleAdmin))
	{
		employees.GET("", employeeHandler.List)
		employees.GET("/add", employeeHandler.NewForm)
		employees.POST("/add", employeeHandler.Create)
		employees.GET("/:code/", employeeHandler.Detail)
		employees.GET("/:code/update", employeeHandler.EditForm)
		employees.POST("/:code/update", employeeHandler.Update)
		employees.POST("/:code/delete", employeeHandler.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		renderError(c, http.StatusNotFound, msgNotFound)
	})

	return r, nil
}
