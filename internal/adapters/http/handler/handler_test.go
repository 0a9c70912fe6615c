package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/daily-report/internal/adapters/session"
	"github.com/ogurasousui/daily-report/internal/core/auth"
	"github.com/ogurasousui/daily-report/internal/core/employee"
	"github.com/ogurasousui/daily-report/internal/core/report"
	"github.com/stretchr/testify/require"
)

const testCookie = "test_session"

var (
	adminPrincipal   = auth.Principal{Code: "ADMIN1", Name: "管理者", Role: employee.RoleAdmin}
	generalPrincipal = auth.Principal{Code: "A001", Name: "山田", Role: employee.RoleGeneral}
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	principals map[string]auth.Principal
	passwords  map[string]string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, code, password string) (auth.Principal, error) {
	p, ok := s.principals[code]
	if !ok || s.passwords[code] != password {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	return p, nil
}

func (s *stubAuthenticator) Resolve(_ context.Context, code string) (auth.Principal, error) {
	p, ok := s.principals[code]
	if !ok {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	return p, nil
}

type stubEmployeeUseCase struct {
	listFn   func(ctx context.Context) ([]*employee.Employee, error)
	getFn    func(ctx context.Context, code string) (*employee.Employee, error)
	createFn func(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error)
	updateFn func(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error)
	deleteFn func(ctx context.Context, in employee.DeleteEmployeeInput) error
}

func (s *stubEmployeeUseCase) ListEmployees(ctx context.Context) ([]*employee.Employee, error) {
	return s.listFn(ctx)
}

func (s *stubEmployeeUseCase) GetEmployee(ctx context.Context, code string) (*employee.Employee, error) {
	return s.getFn(ctx, code)
}

func (s *stubEmployeeUseCase) CreateEmployee(ctx context.Context, in employee.CreateEmployeeInput) (*employee.Employee, error) {
	return s.createFn(ctx, in)
}

func (s *stubEmployeeUseCase) UpdateEmployee(ctx context.Context, in employee.UpdateEmployeeInput) (*employee.Employee, error) {
	return s.updateFn(ctx, in)
}

func (s *stubEmployeeUseCase) DeleteEmployee(ctx context.Context, in employee.DeleteEmployeeInput) error {
	return s.deleteFn(ctx, in)
}

type stubReportUseCase struct {
	listFn   func(ctx context.Context) ([]*report.Report, error)
	filterFn func(ctx context.Context, actor auth.Principal) ([]*report.Report, error)
	getFn    func(ctx context.Context, id int64) (*report.Report, error)
	createFn func(ctx context.Context, actor auth.Principal, in report.CreateReportInput) (*report.Report, error)
	updateFn func(ctx context.Context, actor auth.Principal, in report.UpdateReportInput) (*report.Report, error)
	deleteFn func(ctx context.Context, actor auth.Principal, id int64) error
}

func (s *stubReportUseCase) ListReports(ctx context.Context) ([]*report.Report, error) {
	return s.listFn(ctx)
}

func (s *stubReportUseCase) FilterByRole(ctx context.Context, actor auth.Principal) ([]*report.Report, error) {
	return s.filterFn(ctx, actor)
}

func (s *stubReportUseCase) GetReport(ctx context.Context, id int64) (*report.Report, error) {
	return s.getFn(ctx, id)
}

func (s *stubReportUseCase) CreateReport(ctx context.Context, actor auth.Principal, in report.CreateReportInput) (*report.Report, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubReportUseCase) UpdateReport(ctx context.Context, actor auth.Principal, in report.UpdateReportInput) (*report.Report, error) {
	return s.updateFn(ctx, actor, in)
}

func (s *stubReportUseCase) DeleteReport(ctx context.Context, actor auth.Principal, id int64) error {
	return s.deleteFn(ctx, actor, id)
}

type testServer struct {
	router      *gin.Engine
	tokens      *session.Issuer
	revocations *session.MemoryStore
}

func newTestServer(t *testing.T, employees employee.UseCase, reports report.UseCase) *testServer {
	t.Helper()

	tokens := session.NewIssuer("0123456789abcdef0123", time.Hour)
	revocations := session.NewMemoryStore()

	router, err := NewRouter(Dependencies{
		Employees: employees,
		Reports:   reports,
		Auth: &stubAuthenticator{
			principals: map[string]auth.Principal{
				adminPrincipal.Code:   adminPrincipal,
				generalPrincipal.Code: generalPrincipal,
			},
			passwords: map[string]string{
				adminPrincipal.Code:   "admin-pass",
				generalPrincipal.Code: "pass1",
			},
		},
		Tokens:      tokens,
		Revocations: revocations,
		CookieName:  testCookie,
	})
	require.NoError(t, err)

	return &testServer{router: router, tokens: tokens, revocations: revocations}
}

func (s *testServer) cookieFor(t *testing.T, p auth.Principal) *http.Cookie {
	t.Helper()

	raw, _, err := s.tokens.Issue(p.Code, p.Role)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: raw}
}

func (s *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func sampleReport(id int64, owner auth.Principal) *report.Report {
	now := time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC)
	return &report.Report{
		ID:           id,
		EmployeeCode: owner.Code,
		ReportDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Title:        "進捗報告",
		Content:      "実装を進めました",
		CreatedAt:    now,
		UpdatedAt:    now,
		Employee:     &report.EmployeeSnapshot{Code: owner.Code, Name: owner.Name},
	}
}
