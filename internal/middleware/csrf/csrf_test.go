package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/clothing_shop/internal/tokens"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	return newServerWith(Config{SkipPaths: []string{"/api/auth/login"}})
}

func newServerWith(cfg Config) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/cart", ok)
	e.POST("/api/cart", ok)
	e.POST("/api/auth/login", ok)
	return e
}

func do(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSafeMethodIssuesToken(t *testing.T) {
	rec := do(newServer(), httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-CSRF-Token"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "XSRF-TOKEN", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
}

func TestInsecureCookieForPlainHTTP(t *testing.T) {
	rec := do(newServerWith(Config{Insecure: true}), httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure)
}

func TestCrossOriginAllowedWhenConfigured(t *testing.T) {
	e := newServerWith(Config{AllowCrossOrigin: true})

	req := httptest.NewRequest(http.MethodPost, "http://shop.test/api/cart", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "abc")
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	assert.Equal(t, http.StatusOK, do(e, req).Code)
}

func TestCookieSessionNeedsToken(t *testing.T) {
	e := newServer()

	req := httptest.NewRequest(http.MethodPost, "http://shop.test/api/cart", nil)
	req.Header.Set("Origin", "http://shop.test")
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	assert.Equal(t, http.StatusForbidden, do(e, req).Code)

	req = httptest.NewRequest(http.MethodPost, "http://shop.test/api/cart", nil)
	req.Header.Set("Origin", "http://shop.test")
	req.Header.Set("X-CSRF-Token", "abc")
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	assert.Equal(t, http.StatusOK, do(e, req).Code)

	req = httptest.NewRequest(http.MethodPost, "http://shop.test/api/cart", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("X-CSRF-Token", "abc")
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: "jwt"})
	req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "abc"})
	assert.Equal(t, http.StatusForbidden, do(e, req).Code)
}

func TestBearerAndAnonymousPass(t *testing.T) {
	e := newServer()

	req := httptest.NewRequest(http.MethodPost, "/api/cart", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer jwt")
	req.AddCookie(&http.Cookie{Name: tokens.AccessCookie, Value: "jwt"})
	assert.Equal(t, http.StatusOK, do(e, req).Code)

	assert.Equal(t, http.StatusOK, do(e, httptest.NewRequest(http.MethodPost, "/api/cart", nil)).Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.AddCookie(&http.Cookie{Name: tokens.RefreshCookie, Value: "r"})
	assert.Equal(t, http.StatusOK, do(e, req).Code)
}
