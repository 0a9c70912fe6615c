package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ogurasousui/daily-report/internal/core/employee"
)

// EmployeeFinder は有効な社員を社員番号で取得します。
type EmployeeFinder interface {
	FindByCode(ctx context.Context, code string) (*employee.Employee, error)
}

// PasswordVerifier はハッシュ済みパスワードを検証します。
type PasswordVerifier interface {
	Verify(hashed, password string) error
}

// Service はログイン認証を提供します。
type Service struct {
	employees EmployeeFinder
	verifier  PasswordVerifier
}

// NewService は Service を生成します。
func NewService(employees EmployeeFinder, verifier PasswordVerifier) *Service {
	return &Service{employees: employees, verifier: verifier}
}

// Authenticate は社員番号とパスワードを検証し Principal を返します。
// 論理削除された社員はログインできません。
func (s *Service) Authenticate(ctx context.Context, code, password string) (Principal, error) {
	code = strings.TrimSpace(code)
	if code == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	emp, err := s.lookup(ctx, code)
	if err != nil {
		return Principal{}, err
	}

	if err := s.verifier.Verify(emp.Password, password); err != nil {
		return Principal{}, ErrInvalidCredentials
	}

	return FromEmployee(emp), nil
}

// Resolve はセッションに記録された社員番号から最新の Principal を組み立てます。
func (s *Service) Resolve(ctx context.Context, code string) (Principal, error) {
	if strings.TrimSpace(code) == "" {
		return Principal{}, ErrUnauthenticated
	}

	emp, err := s.lookup(ctx, code)
	if err != nil {
		return Principal{}, err
	}
	return FromEmployee(emp), nil
}

func (s *Service) lookup(ctx context.Context, code string) (*employee.Employee, error) {
	emp, err := s.employees.FindByCode(ctx, code)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return emp, nil
}
