package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogin_SetsCookieAndRedirects(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})

	rec := srv.do(postForm("/login", url.Values{"code": {"A001"}, "password": {"pass1"}}), nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/reports", rec.Header().Get("Location"))

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	require.True(t, sessionCookie.HttpOnly)

	tok, err := srv.tokens.Parse(sessionCookie.Value)
	require.NoError(t, err)
	require.Equal(t, "A001", tok.Code)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})

	rec := srv.do(postForm("/login", url.Values{"code": {"A001"}, "password": {"wrong"}}), nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), msgInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})

	rec := srv.do(postForm("/login", url.Values{"code": {"A001"}}), nil)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), msgBlank)
}

func TestProtectedPage_RedirectsWithoutSession(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/reports", nil), nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestLogout_RevokesSession(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})
	cookie := srv.cookieFor(t, generalPrincipal)

	rec := srv.do(httptest.NewRequest(http.MethodPost, "/logout", nil), cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	rec = srv.do(httptest.NewRequest(http.MethodGet, "/reports", nil), cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRoot_RedirectsToReports(t *testing.T) {
	srv := newTestServer(t, &stubEmployeeUseCase{}, &stubReportUseCase{})

	rec := srv.do(httptest.NewRequest(http.MethodGet, "/", nil), nil)

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/reports", rec.Header().Get("Location"))
}
