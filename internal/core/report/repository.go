package report

import (
	"context"
	"time"
)

// Repository は日報永続化の抽象です。FindByID は論理削除済みの日報も返します。
type Repository interface {
	Create(ctx context.Context, report *Report) (*Report, error)
	Update(ctx context.Context, report *Report) (*Report, error)
	FindByID(ctx context.Context, id int64) (*Report, error)
	List(ctx context.Context, filter ListFilter) ([]*Report, error)
	ExistsActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time, excludeID int64) (bool, error)
}

// ListFilter は一覧取得用フィルタです。EmployeeCode が空の場合は全社員を対象にします。
type ListFilter struct {
	EmployeeCode string
	ActiveOnly   bool
}
