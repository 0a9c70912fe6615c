package report

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ogurasousui/daily-report/internal/core/auth"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const (
	maxTitleLength   = 100
	maxContentLength = 600
)

// Service は日報に関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// UseCase は日報ユースケースの公開インターフェースです。
type UseCase interface {
	ListReports(ctx context.Context) ([]*Report, error)
	FilterByRole(ctx context.Context, actor auth.Principal) ([]*Report, error)
	GetReport(ctx context.Context, id int64) (*Report, error)
	CreateReport(ctx context.Context, actor auth.Principal, in CreateReportInput) (*Report, error)
	UpdateReport(ctx context.Context, actor auth.Principal, in UpdateReportInput) (*Report, error)
	DeleteReport(ctx context.Context, actor auth.Principal, id int64) error
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// CreateReportInput は日報登録時の入力です。
type CreateReportInput struct {
	ReportDate time.Time
	Title      string
	Content    string
}

// UpdateReportInput は日報更新時の入力です。ID はリクエストパスの値を使います。
type UpdateReportInput struct {
	ID         int64
	ReportDate time.Time
	Title      string
	Content    string
}

// ListReports は論理削除済みを含むすべての日報を返します。
func (s *Service) ListReports(ctx context.Context) ([]*Report, error) {
	return s.list(ctx, ListFilter{})
}

// FilterByRole は権限に応じた日報の一覧を論理削除済みも含めて返します。
// 一般権限の社員は自分の日報のみ、管理者はすべての日報を参照できます。
func (s *Service) FilterByRole(ctx context.Context, actor auth.Principal) ([]*Report, error) {
	if strings.TrimSpace(actor.Code) == "" {
		return nil, auth.ErrUnauthenticated
	}

	filter := ListFilter{}
	if !actor.IsAdmin() {
		filter.EmployeeCode = actor.Code
	}
	return s.list(ctx, filter)
}

// GetReport は ID で日報を取得します。
func (s *Service) GetReport(ctx context.Context, id int64) (*Report, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	var result *Report
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// CreateReport はログイン社員の日報を登録します。同じ日付の有効な日報が既にある場合は ErrReportDateDuplicate を返します。
func (s *Service) CreateReport(ctx context.Context, actor auth.Principal, in CreateReportInput) (*Report, error) {
	if strings.TrimSpace(actor.Code) == "" {
		return nil, auth.ErrUnauthenticated
	}

	fields, err := normalizeFields(in.ReportDate, in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	var created *Report
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsActiveByEmployeeAndDate(txCtx, actor.Code, fields.date, 0)
		if err != nil {
			return err
		}
		if exists {
			return ErrReportDateDuplicate
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Report{
			EmployeeCode: actor.Code,
			ReportDate:   fields.date,
			Title:        fields.title,
			Content:      fields.content,
			DeleteFlag:   false,
			CreatedAt:    now,
			UpdatedAt:    now,
			Employee:     &EmployeeSnapshot{Code: actor.Code, Name: actor.Name},
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateReport は日報を更新します。対象はパスの ID で特定し、作成日時は維持します。
func (s *Service) UpdateReport(ctx context.Context, actor auth.Principal, in UpdateReportInput) (*Report, error) {
	if strings.TrimSpace(actor.Code) == "" {
		return nil, auth.ErrUnauthenticated
	}
	if in.ID <= 0 {
		return nil, ErrInvalidID
	}

	fields, err := normalizeFields(in.ReportDate, in.Title, in.Content)
	if err != nil {
		return nil, err
	}

	var updated *Report
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if err := authorize(actor, existing); err != nil {
			return err
		}

		// 日付の変更時と論理削除からの復帰時は、所有者の他の有効な日報と日付が重複しないこと。
		if existing.DeleteFlag || !existing.ReportDate.Equal(fields.date) {
			exists, err := s.repo.ExistsActiveByEmployeeAndDate(txCtx, existing.EmployeeCode, fields.date, existing.ID)
			if err != nil {
				return err
			}
			if exists {
				return ErrReportDateDuplicate
			}
		}

		existing.Title = fields.title
		existing.ReportDate = fields.date
		existing.Content = fields.content
		existing.DeleteFlag = false
		existing.UpdatedAt = s.clock.Now()

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteReport は日報を論理削除し、その変更を永続化します。
func (s *Service) DeleteReport(ctx context.Context, actor auth.Principal, id int64) error {
	if strings.TrimSpace(actor.Code) == "" {
		return auth.ErrUnauthenticated
	}
	if id <= 0 {
		return ErrInvalidID
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if err := authorize(actor, existing); err != nil {
			return err
		}

		existing.DeleteFlag = true
		existing.UpdatedAt = s.clock.Now()

		if _, err := s.repo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("soft delete report %d: %w", id, err)
		}
		return nil
	})
}

func (s *Service) list(ctx context.Context, filter ListFilter) ([]*Report, error) {
	var reports []*Report
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		reports = found
		return nil
	}); err != nil {
		return nil, err
	}
	return reports, nil
}

func authorize(actor auth.Principal, r *Report) error {
	if actor.IsAdmin() || r.EmployeeCode == actor.Code {
		return nil
	}
	return ErrForbidden
}

type reportFields struct {
	date    time.Time
	title   string
	content string
}

func normalizeFields(date time.Time, title, content string) (reportFields, error) {
	if date.IsZero() {
		return reportFields{}, ErrInvalidReportDate
	}

	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" || utf8.RuneCountInString(trimmedTitle) > maxTitleLength {
		return reportFields{}, ErrInvalidTitle
	}

	trimmedContent := strings.TrimSpace(content)
	if trimmedContent == "" || utf8.RuneCountInString(trimmedContent) > maxContentLength {
		return reportFields{}, ErrInvalidContent
	}

	return reportFields{
		date:    NormalizeDate(date),
		title:   trimmedTitle,
		content: trimmedContent,
	}, nil
}

// NormalizeDate は時刻部分を切り捨て UTC の日付に揃えます。
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
