package report

import "errors"

var (
	ErrInvalidID           = errors.New("report: invalid id")
	ErrInvalidReportDate   = errors.New("report: invalid report date")
	ErrInvalidTitle        = errors.New("report: invalid title")
	ErrInvalidContent      = errors.New("report: invalid content")
	ErrReportNotFound      = errors.New("report: not found")
	ErrReportDateDuplicate = errors.New("report: report already exists for the date")
	ErrEmployeeNotFound    = errors.New("report: employee not found")
	ErrForbidden           = errors.New("report: operation not permitted")
)
