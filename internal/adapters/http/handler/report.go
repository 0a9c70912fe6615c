package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/ogurasousui/daily-report/internal/adapters/export"
	"github.com/ogurasousui/daily-report/internal/core/auth"
	"github.com/ogurasousui/daily-report/internal/core/report"
	"go.uber.org/zap"
)

const exportFilename = "reports.xlsx"

// ReportHandler は日報画面を提供します。
type ReportHandler struct {
	svc    report.UseCase
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler は ReportHandler を生成します。
func NewReportHandler(svc report.UseCase, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

// List はログイン社員の権限に応じた日報一覧を表示します。
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.svc.FilterByRole(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		respondFailure(c, h.logger, err, nil)
		return
	}

	render(c, http.StatusOK, "report_list", gin.H{
		"Title":    "日報一覧",
		"Reports":  reports,
		"ListSize": len(reports),
	})
}

// Detail は日報詳細を表示します。
func (h *ReportHandler) Detail(c *gin.Context) {
	rep, ok := h.load(c)
	if !ok {
		return
	}
	h.renderDetail(c, http.StatusOK, rep, "")
}

// NewForm は日報登録フォームを表示します。日付の初期値は当日です。
func (h *ReportHandler) NewForm(c *gin.Context) {
	form := reportForm{ReportDate: h.now().Format(dateLayout)}
	h.renderNew(c, http.StatusOK, form, nil, "")
}

// Create はログイン社員の日報を登録します。
func (h *ReportHandler) Create(c *gin.Context) {
	var form reportForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		errs, ok := fieldErrors(err)
		if !ok {
			renderError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		h.renderNew(c, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	date, err := time.Parse(dateLayout, form.ReportDate)
	if err != nil {
		h.renderNew(c, http.StatusUnprocessableEntity, form, map[string]string{"ReportDate": "日付の形式が正しくありません"}, "")
		return
	}

	_, err = h.svc.CreateReport(c.Request.Context(), currentPrincipal(c), report.CreateReportInput{
		ReportDate: date,
		Title:      form.Title,
		Content:    form.Content,
	})
	if err != nil {
		respondFailure(c, h.logger, err, func(status int, message string) {
			h.renderNew(c, status, form, nil, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/reports")
}

// EditForm は日報更新フォームを表示します。
func (h *ReportHandler) EditForm(c *gin.Context) {
	rep, ok := h.load(c)
	if !ok {
		return
	}

	form := reportForm{
		ReportDate: rep.ReportDate.Format(dateLayout),
		Title:      rep.Title,
		Content:    rep.Content,
	}
	h.renderUpdate(c, http.StatusOK, rep.ID, ownerName(rep), form, nil, "")
}

// Update は日報を更新します。対象はパスの ID で特定します。
func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var form reportForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		errs, ok := fieldErrors(err)
		if !ok {
			renderError(c, http.StatusBadRequest, msgBadRequest)
			return
		}
		h.renderUpdate(c, http.StatusUnprocessableEntity, id, h.ownerNameByID(c, id), form, errs, "")
		return
	}

	date, err := time.Parse(dateLayout, form.ReportDate)
	if err != nil {
		h.renderUpdate(c, http.StatusUnprocessableEntity, id, h.ownerNameByID(c, id), form, map[string]string{"ReportDate": "日付の形式が正しくありません"}, "")
		return
	}

	_, err = h.svc.UpdateReport(c.Request.Context(), currentPrincipal(c), report.UpdateReportInput{
		ID:         id,
		ReportDate: date,
		Title:      form.Title,
		Content:    form.Content,
	})
	if err != nil {
		respondFailure(c, h.logger, err, func(status int, message string) {
			h.renderUpdate(c, status, id, h.ownerNameByID(c, id), form, nil, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/reports")
}

// Delete は日報を論理削除します。失敗時は詳細画面にメッセージを表示します。
func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.svc.DeleteReport(ctx, currentPrincipal(c), id); err != nil {
		respondFailure(c, h.logger, err, func(status int, message string) {
			rep, getErr := h.svc.GetReport(ctx, id)
			if getErr != nil {
				respondFailure(c, h.logger, getErr, nil)
				return
			}
			h.renderDetail(c, status, rep, message)
		})
		return
	}

	c.Redirect(http.StatusFound, "/reports")
}

// Export は一覧と同じ範囲の日報を xlsx で出力します。
func (h *ReportHandler) Export(c *gin.Context) {
	reports, err := h.svc.FilterByRole(c.Request.Context(), currentPrincipal(c))
	if err != nil {
		respondFailure(c, h.logger, err, nil)
		return
	}

	data, err := export.Reports(reports)
	if err != nil {
		respondFailure(c, h.logger, err, nil)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	c.Data(http.StatusOK, export.ContentType, data)
}

// load はパスの ID で日報を取得し、閲覧できない場合はエラーページを返します。
func (h *ReportHandler) load(c *gin.Context) (*report.Report, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	rep, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		respondFailure(c, h.logger, err, nil)
		return nil, false
	}
	if !canAccess(currentPrincipal(c), rep) {
		respondFailure(c, h.logger, report.ErrForbidden, nil)
		return nil, false
	}
	return rep, true
}

func (h *ReportHandler) renderDetail(c *gin.Context, status int, rep *report.Report, message string) {
	render(c, status, "report_detail", gin.H{
		"Title":  "日報詳細",
		"Report": rep,
		"Error":  message,
	})
}

func (h *ReportHandler) renderNew(c *gin.Context, status int, form reportForm, errs map[string]string, message string) {
	render(c, status, "report_new", gin.H{
		"Title":        "日報新規登録",
		"EmployeeName": currentPrincipal(c).Name,
		"Form":         form,
		"Errors":       nonNilErrors(errs),
		"Error":        message,
	})
}

func (h *ReportHandler) renderUpdate(c *gin.Context, status int, id int64, employeeName string, form reportForm, errs map[string]string, message string) {
	render(c, status, "report_update", gin.H{
		"Title":        "日報更新",
		"ID":           id,
		"EmployeeName": employeeName,
		"Form":         form,
		"Errors":       nonNilErrors(errs),
		"Error":        message,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func canAccess(actor auth.Principal, rep *report.Report) bool {
	return actor.IsAdmin() || rep.EmployeeCode == actor.Code
}

// ownerNameByID は再表示用に日報の所有者名を取得します。取得できない場合は空文字を返します。
func (h *ReportHandler) ownerNameByID(c *gin.Context, id int64) string {
	rep, err := h.svc.GetReport(c.Request.Context(), id)
	if err != nil {
		h.logger.Warn("failed to load report owner", zap.Int64("id", id), zap.Error(err))
		return ""
	}
	return ownerName(rep)
}

func ownerName(rep *report.Report) string {
	if rep.Employee == nil {
		return ""
	}
	return rep.Employee.Name
}
