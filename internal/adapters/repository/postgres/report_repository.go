package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/daily-report/internal/core/report"
	pgdb "github.com/ogurasousui/daily-report/internal/platform/db/postgres"
)

const reportActiveDateConstraint = "reports_employee_date_active_key"

// ReportRepository は PostgreSQL を利用した日報永続化の実装です。
type ReportRepository struct {
	pool pgdb.Queryer
}

// NewReportRepository は ReportRepository を生成します。
func NewReportRepository(pool pgdb.Queryer) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create は日報を登録し、社員情報を結合して返します。
func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH inserted AS (
            INSERT INTO reports (employee_code, report_date, title, content, delete_flag, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id, employee_code, report_date, title, content, delete_flag, created_at, updated_at
        )
        SELECT i.id, i.employee_code, i.report_date, i.title, i.content, i.delete_flag, i.created_at, i.updated_at,
               e.code, e.name, e.delete_flag
          FROM inserted i
          JOIN employees e ON e.code = i.employee_code
    `,
		rep.EmployeeCode,
		report.NormalizeDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.DeleteFlag,
		rep.CreatedAt,
		rep.UpdatedAt,
	)

	created, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return created, nil
}

// Update は日報の可変項目 (論理削除フラグを含む) を書き込みます。created_at は更新しません。
func (r *ReportRepository) Update(ctx context.Context, rep *report.Report) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        WITH updated AS (
            UPDATE reports
               SET report_date = $1,
                   title = $2,
                   content = $3,
                   delete_flag = $4,
                   updated_at = $5
             WHERE id = $6
            RETURNING id, employee_code, report_date, title, content, delete_flag, created_at, updated_at
        )
        SELECT u.id, u.employee_code, u.report_date, u.title, u.content, u.delete_flag, u.created_at, u.updated_at,
               e.code, e.name, e.delete_flag
          FROM updated u
          JOIN employees e ON e.code = u.employee_code
    `,
		report.NormalizeDate(rep.ReportDate),
		rep.Title,
		rep.Content,
		rep.DeleteFlag,
		rep.UpdatedAt,
		rep.ID,
	)

	updated, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return updated, nil
}

// FindByID は ID で日報を取得します。論理削除済みの日報も返します。
func (r *ReportRepository) FindByID(ctx context.Context, id int64) (*report.Report, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT r.id, r.employee_code, r.report_date, r.title, r.content, r.delete_flag, r.created_at, r.updated_at,
               e.code, e.name, e.delete_flag
          FROM reports r
          JOIN employees e ON e.code = r.employee_code
         WHERE r.id = $1
    `, id)

	found, err := scanReport(row)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	return found, nil
}

// List は条件に一致する日報を日付の新しい順に返します。
func (r *ReportRepository) List(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	args := make([]any, 0, 1)
	conditions := make([]string, 0, 2)

	if code := strings.TrimSpace(filter.EmployeeCode); code != "" {
		args = append(args, code)
		conditions = append(conditions, "r.employee_code = $"+strconv.Itoa(len(args)))
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "r.delete_flag = FALSE")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := `
        SELECT r.id, r.employee_code, r.report_date, r.title, r.content, r.delete_flag, r.created_at, r.updated_at,
               e.code, e.name, e.delete_flag
          FROM reports r
          JOIN employees e ON e.code = r.employee_code` + whereClause + `
         ORDER BY r.report_date DESC, r.id DESC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateReportPgError(err)
	}
	defer rows.Close()

	reports := make([]*report.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, translateReportPgError(err)
		}
		reports = append(reports, rep)
	}

	if err := rows.Err(); err != nil {
		return nil, translateReportPgError(err)
	}

	return reports, nil
}

// ExistsActiveByEmployeeAndDate は社員の有効な日報が指定日に存在するかを返します。excludeID の日報は対象外です。
func (r *ReportRepository) ExistsActiveByEmployeeAndDate(ctx context.Context, employeeCode string, reportDate time.Time, excludeID int64) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	err := exec.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1
              FROM reports
             WHERE employee_code = $1
               AND report_date = $2
               AND delete_flag = FALSE
               AND id <> $3
        )
    `, employeeCode, report.NormalizeDate(reportDate), excludeID).Scan(&exists)
	if err != nil {
		return false, translateReportPgError(err)
	}
	return exists, nil
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var (
		id             int64
		employeeCode   string
		reportDate     time.Time
		title          string
		content        string
		deleteFlag     bool
		createdAt      time.Time
		updatedAt      time.Time
		ownerCode      string
		ownerName      string
		ownerIsDeleted bool
	)

	if err := row.Scan(
		&id,
		&employeeCode,
		&reportDate,
		&title,
		&content,
		&deleteFlag,
		&createdAt,
		&updatedAt,
		&ownerCode,
		&ownerName,
		&ownerIsDeleted,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}

	return &report.Report{
		ID:           id,
		EmployeeCode: employeeCode,
		ReportDate:   report.NormalizeDate(reportDate),
		Title:        title,
		Content:      content,
		DeleteFlag:   deleteFlag,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		Employee: &report.EmployeeSnapshot{
			Code:       ownerCode,
			Name:       ownerName,
			DeleteFlag: ownerIsDeleted,
		},
	}, nil
}

func translateReportPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return report.ErrReportNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			if pgErr.ConstraintName == reportActiveDateConstraint {
				return report.ErrReportDateDuplicate
			}
		case foreignKeyViolationCode:
			return report.ErrEmployeeNotFound
		}
	}

	return err
}
