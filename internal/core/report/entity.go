package report

import "time"

// Report は日報エンティティです。ReportDate は UTC の 0 時に正規化された日付です。
type Report struct {
	ID           int64
	EmployeeCode string
	ReportDate   time.Time
	Title        string
	Content      string
	DeleteFlag   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Employee     *EmployeeSnapshot
}

// EmployeeSnapshot は日報に紐づく社員情報のスナップショットです。
type EmployeeSnapshot struct {
	Code       string
	Name       string
	DeleteFlag bool
}
