package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"go.uber.org/zap"
)

// EmployeeHandler は従業員管理画面を提供します。
type EmployeeHandler struct {
	svc    employee.UseCase
	logger *zap.Logger
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{svc: svc, logger: logger}
}

// List は従業員一覧を表示します。
func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.svc.ListEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	render(c, http.StatusOK, "employee_list", gin.H{
		"Title":     "従業員一覧",
		"Employees": employees,
		"ListSize":  len(employees),
	})
}

// Detail は従業員詳細を表示します。
func (h *EmployeeHandler) Detail(c *gin.Context) {
	emp, err := h.svc.GetEmployee(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.renderDetail(c, http.StatusOK, emp, "")
}

// NewForm は従業員登録フォームを表示します。
func (h *EmployeeHandler) NewForm(c *gin.Context) {
	h.renderNew(c, http.StatusOK, employeeForm{Role: string(employee.RoleGeneral)}, nil, "")
}

// Create は従業員を登録します。パスワードの空欄チェックは他の入力チェックより先に行います。
func (h *EmployeeHandler) Create(c *gin.Context) {
	var form employeeForm
	bindErr := c.ShouldBindWith(&form, binding.Form)

	if form.Password == "" {
		h.renderNew(c, http.StatusUnprocessableEntity, form, map[string]string{"Password": msgBlank}, "")
		return
	}
	if bindErr != nil {
		errs, ok := fieldErrors(bindErr)
		if !ok {
			renderError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		h.renderNew(c, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	_, err := h.svc.CreateEmployee(c.Request.Context(), employee.CreateEmployeeInput{
		Code:     form.Code,
		Name:     form.Name,
		Password: form.Password,
		Role:     employee.Role(form.Role),
	})
	if err != nil {
		h.failForm(c, err, func(status int, message string) {
			h.renderNew(c, status, form, nil, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/employees")
}

// EditForm は従業員更新フォームを表示します。
func (h *EmployeeHandler) EditForm(c *gin.Context) {
	emp, err := h.svc.GetEmployee(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.fail(c, err)
		return
	}

	form := employeeUpdateForm{Name: emp.Name, Role: string(emp.Role)}
	h.renderUpdate(c, http.StatusOK, emp.Code, form, nil, "")
}

// Update は従業員情報を更新します。パスワードが空欄の場合は変更しません。
func (h *EmployeeHandler) Update(c *gin.Context) {
	code := c.Param("code")

	var form employeeUpdateForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		errs, ok := fieldErrors(err)
		if !ok {
			renderError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		h.renderUpdate(c, http.StatusUnprocessableEntity, code, form, errs, "")
		return
	}

	_, err := h.svc.UpdateEmployee(c.Request.Context(), employee.UpdateEmployeeInput{
		Code:     code,
		Name:     form.Name,
		Password: form.Password,
		Role:     employee.Role(form.Role),
	})
	if err != nil {
		h.failForm(c, err, func(status int, message string) {
			h.renderUpdate(c, status, code, form, nil, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/employees")
}

// Delete は従業員を論理削除します。失敗時は詳細画面にメッセージを表示します。
func (h *EmployeeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Param("code")

	err := h.svc.DeleteEmployee(ctx, employee.DeleteEmployeeInput{
		Code:      code,
		ActorCode: currentPrincipal(c).Code,
	})
	if err != nil {
		h.failForm(c, err, func(status int, message string) {
			emp, getErr := h.svc.GetEmployee(ctx, code)
			if getErr != nil {
				h.fail(c, getErr)
				return
			}
			h.renderDetail(c, status, emp, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/employees")
}

func (h *EmployeeHandler) renderDetail(c *gin.Context, status int, emp *employee.Employee, message string) {
	render(c, status, "employee_detail", gin.H{
		"Title":    "従業員詳細",
		"Employee": emp,
		"Error":    message,
	})
}

func (h *EmployeeHandler) renderNew(c *gin.Context, status int, form employeeForm, errs map[string]string, message string) {
	form.Password = ""
	render(c, status, "employee_new", gin.H{
		"Title":  "従業員新規登録",
		"Form":   form,
		"Roles":  roleOptions,
		"Errors": nonNilErrors(errs),
		"Error":  message,
	})
}

func (h *EmployeeHandler) renderUpdate(c *gin.Context, status int, code string, form employeeUpdateForm, errs map[string]string, message string) {
	form.Password = ""
	render(c, status, "employee_update", gin.H{
		"Title":  "従業員更新",
		"Code":   code,
		"Form":   form,
		"Roles":  roleOptions,
		"Errors": nonNilErrors(errs),
		"Error":  message,
	})
}

func (h *EmployeeHandler) fail(c *gin.Context, err error) {
	respondFailure(c, h.logger, err, nil)
}

func (h *EmployeeHandler) failForm(c *gin.Context, err error, rerender func(status int, message string)) {
	respondFailure(c, h.logger, err, rerender)
}

// respondFailure はエラーの種別に応じてフォームの再表示かエラーページを返します。
func respondFailure(c *gin.Context, logger *zap.Logger, err error, rerender func(status int, message string)) {
	f := toFailure(err)
	switch {
	case f.status >= http.StatusInternalServerError:
		_ = c.Error(err)
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		renderError(c, f.status, f.message)
	case f.inline && rerender != nil:
		rerender(f.status, f.message)
	default:
		renderError(c, f.status, f.message)
	}
}

func nonNilErrors(errs map[string]string) map[string]string {
	if errs == nil {
		return map[string]string{}
	}
	return errs
}
