package employee

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
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
	maxCodeLength = 10
	maxNameLength = 20
)

// Service は社員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	hasher PasswordHasher
	clock  Clock
	tx     TransactionManager
}

// UseCase は社員ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context) ([]*Employee, error)
	GetEmployee(ctx context.Context, code string) (*Employee, error)
	CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error)
	UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error)
	DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, hasher PasswordHasher, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, hasher: hasher, clock: clock, tx: tx}
}

// CreateEmployeeInput は社員登録時の入力です。
type CreateEmployeeInput struct {
	Code     string
	Name     string
	Password string
	Role     Role
}

// UpdateEmployeeInput は社員更新時の入力です。Password が空の場合は既存のパスワードを維持します。
type UpdateEmployeeInput struct {
	Code     string
	Name     string
	Password string
	Role     Role
}

// DeleteEmployeeInput は社員削除時の入力です。ActorCode は操作しているログイン社員の社員番号です。
type DeleteEmployeeInput struct {
	Code      string
	ActorCode string
}

// ListEmployees は論理削除されていない社員の一覧を返します。
func (s *Service) ListEmployees(ctx context.Context) ([]*Employee, error) {
	var employees []*Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.List(txCtx)
		if err != nil {
			return err
		}
		employees = found
		return nil
	}); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee は社員番号で社員を取得します。論理削除済みの社員は ErrEmployeeNotFound になります。
func (s *Service) GetEmployee(ctx context.Context, code string) (*Employee, error) {
	normalized, err := normalizeCode(code)
	if err != nil {
		return nil, err
	}

	var result *Employee
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByCode(txCtx, normalized)
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

// CreateEmployee は新しい社員を登録します。
func (s *Service) CreateEmployee(ctx context.Context, in CreateEmployeeInput) (*Employee, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, ErrBlankPassword
	}

	code, err := normalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if !isValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	var created *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.ExistsByCode(txCtx, code)
		if err != nil {
			return err
		}
		if exists {
			return ErrCodeAlreadyExists
		}

		hashed, err := s.hasher.Hash(in.Password)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		result, err := s.repo.Create(txCtx, &Employee{
			Code:       code,
			Name:       name,
			Password:   hashed,
			Role:       in.Role,
			DeleteFlag: false,
			CreatedAt:  now,
			UpdatedAt:  now,
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

// UpdateEmployee は社員情報を更新します。社員番号は変更できません。
func (s *Service) UpdateEmployee(ctx context.Context, in UpdateEmployeeInput) (*Employee, error) {
	code, err := normalizeCode(in.Code)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if !isValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	var updated *Employee
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByCode(txCtx, code)
		if err != nil {
			return err
		}

		existing.Name = name
		existing.Role = in.Role

		if strings.TrimSpace(in.Password) != "" {
			hashed, err := s.hasher.Hash(in.Password)
			if err != nil {
				return err
			}
			existing.Password = hashed
		}

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

// DeleteEmployee は社員を論理削除します。ログイン中の社員自身は削除できません。
func (s *Service) DeleteEmployee(ctx context.Context, in DeleteEmployeeInput) error {
	code, err := normalizeCode(in.Code)
	if err != nil {
		return err
	}

	actor := strings.TrimSpace(in.ActorCode)
	if actor == "" {
		return ErrActorRequired
	}
	if actor == code {
		return ErrSelfDelete
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByCode(txCtx, code)
		if err != nil {
			return err
		}

		existing.DeleteFlag = true
		existing.UpdatedAt = s.clock.Now()

		if _, err := s.repo.Update(txCtx, existing); err != nil {
			return fmt.Errorf("soft delete %s: %w", code, err)
		}
		return nil
	})
}

func normalizeCode(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxCodeLength {
		return "", ErrInvalidCode
	}
	return trimmed, nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func isValidRole(role Role) bool {
	switch role {
	case RoleGeneral, RoleAdmin:
		return true
	default:
		return false
	}
}
