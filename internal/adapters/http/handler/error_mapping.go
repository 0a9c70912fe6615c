package handler

import (
	"errors"
	"net/http"

	"github.com/ogurasousui/daily-report/internal/core/auth"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"github.com/ogurasousui/daily-report/internal/core/report"
)

const (
	msgBlank              = "値を入力してください"
	msgCodeDuplicate      = "既に登録されている社員番号です"
	msgDateDuplicate      = "既に登録されている日付です"
	msgSelfDelete         = "ログイン中の従業員を削除することは出来ません"
	msgForbidden          = "この操作を行う権限がありません"
	msgNotFound           = "対象のデータが見つかりません"
	msgUnauthenticated    = "ログインしてください"
	msgInvalidCredentials = "社員番号またはパスワードが正しくありません"
	msgBadRequest         = "リクエストが不正です"
	msgInternal           = "システムエラーが発生しました"
)

// failure はエラーを画面に返す際の HTTP ステータスとメッセージです。
// inline が true の場合は元のフォームに戻してメッセージを表示します。
type failure struct {
	status  int
	message string
	inline  bool
}

func toFailure(err error) failure {
	switch {
	case errors.Is(err, employee.ErrBlankPassword):
		return failure{http.StatusUnprocessableEntity, msgBlank, true}
	case errors.Is(err, employee.ErrInvalidCode):
		return failure{http.StatusUnprocessableEntity, "社員番号は10文字以下で入力してください", true}
	case errors.Is(err, employee.ErrInvalidName):
		return failure{http.StatusUnprocessableEntity, "氏名は20文字以下で入力してください", true}
	case errors.Is(err, employee.ErrInvalidRole):
		return failure{http.StatusUnprocessableEntity, "権限を選択してください", true}
	case errors.Is(err, report.ErrInvalidReportDate):
		return failure{http.StatusUnprocessableEntity, "日付を入力してください", true}
	case errors.Is(err, report.ErrInvalidTitle):
		return failure{http.StatusUnprocessableEntity, "タイトルは100文字以下で入力してください", true}
	case errors.Is(err, report.ErrInvalidContent):
		return failure{http.StatusUnprocessableEntity, "内容は600文字以下で入力してください", true}
	case errors.Is(err, employee.ErrCodeAlreadyExists):
		return failure{http.StatusConflict, msgCodeDuplicate, true}
	case errors.Is(err, report.ErrReportDateDuplicate):
		return failure{http.StatusConflict, msgDateDuplicate, true}
	case errors.Is(err, employee.ErrSelfDelete):
		return failure{http.StatusForbidden, msgSelfDelete, true}
	case errors.Is(err, report.ErrForbidden):
		return failure{http.StatusForbidden, msgForbidden, false}
	case errors.Is(err, employee.ErrEmployeeNotFound),
		errors.Is(err, report.ErrReportNotFound),
		errors.Is(err, report.ErrEmployeeNotFound),
		errors.Is(err, report.ErrInvalidID):
		return failure{http.StatusNotFound, msgNotFound, false}
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, employee.ErrActorRequired):
		return failure{http.StatusUnauthorized, msgUnauthenticated, false}
	default:
		return failure{http.StatusInternalServerError, msgInternal, false}
	}
}
