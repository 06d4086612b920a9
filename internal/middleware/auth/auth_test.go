package authmw

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/tokens"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("access")

type stubRefresher struct {
	res *service.LoginResult
	err error
}

func (s stubRefresher) Refresh(context.Context, string) (*service.LoginResult, error) {
	return s.res, s.err
}

func token(t *testing.T, sub, role string, exp time.Time) string {
	t.Helper()
	tok, err := tokens.CreateAccessToken(secret, sub, role, exp)
	require.NoError(t, err)
	return tok
}

func run(m *AutoRefreshMiddleware, mw func(echo.HandlerFunc) echo.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c, err
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "want echo.HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth_Bearer(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, id.String(), models.RoleUser, time.Now().Add(time.Minute)))

	rec, c, err := run(m, m.RequireAuth, req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	got, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.Equal(t, models.RoleUser, Role(c))
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: token(t, uuid.NewString(), models.RoleUser, time.Now().Add(time.Minute))})

	_, _, err := run(m, m.RequireAuth, req)
	require.NoError(t, err)
}

func TestRequireAuth_Rejects(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)

	_, _, err := run(m, m.RequireAuth, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer nonsense")
	_, _, err = run(m, m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	forged, err := tokens.CreateAccessToken([]byte("other"), uuid.NewString(), models.RoleAdmin, time.Now().Add(time.Minute))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+forged)
	_, _, err = run(m, m.RequireAdmin, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAdmin(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, uuid.NewString(), models.RoleUser, time.Now().Add(time.Minute)))
	_, _, err := run(m, m.RequireAdmin, req)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, uuid.NewString(), models.RoleAdmin, time.Now().Add(time.Minute)))
	_, c, err := run(m, m.RequireAdmin, req)
	require.NoError(t, err)
	assert.True(t, m.IsAdminRequest(c))
}

func TestRequireAuth_RefreshesExpiredCookie(t *testing.T) {
	id := uuid.New()
	fresh := token(t, id.String(), models.RoleUser, time.Now().Add(time.Minute))
	m := NewAutoRefreshMiddleware(secret, stubRefresher{res: &service.LoginResult{
		AccessToken:  fresh,
		RefreshToken: "new-refresh",
		AccessExp:    time.Now().Add(time.Minute),
		RefreshExp:   time.Now().Add(time.Hour),
	}})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: token(t, id.String(), models.RoleUser, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "old-refresh"})

	rec, c, err := run(m, m.RequireAuth, req)
	require.NoError(t, err)
	got, err := UserID(c)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	assert.Equal(t, fresh, cookies[0].Value)
	assert.Equal(t, "new-refresh", cookies[1].Value)
}

func TestRequireAuth_ExpiredBearerIsNotRefreshed(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, stubRefresher{err: errors.New("should not be called")})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token(t, uuid.NewString(), models.RoleUser, time.Now().Add(-time.Minute)))
	_, _, err := run(m, m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}

func TestRequireAuth_FailedRefreshClearsCookies(t *testing.T) {
	m := NewAutoRefreshMiddleware(secret, stubRefresher{err: service.ErrUnauthorized})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: token(t, uuid.NewString(), models.RoleUser, time.Now().Add(-time.Minute))})
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "revoked"})

	rec, _, err := run(m, m.RequireAuth, req)
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value)
	}
}
