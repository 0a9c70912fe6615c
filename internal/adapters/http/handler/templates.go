package handler

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/daily-report/internal/core/employee"
)

//go:embed templates/*.html
var templatesFS embed.FS

var roleOptions = []employee.Role{employee.RoleGeneral, employee.RoleAdmin}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}

// render はログイン社員を付与してテンプレートを描画します。
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if p, ok := PrincipalFrom(c); ok {
		data["Principal"] = p
	}
	c.HTML(status, name, data)
}

func renderError(c *gin.Context, status int, message string) {
	render(c, status, "error", gin.H{
		"Title":   http.StatusText(status),
		"Status":  status,
		"Message": message,
	})
}
