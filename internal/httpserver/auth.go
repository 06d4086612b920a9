package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/tokens"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setSession(c echo.Context, res *service.LoginResult) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func sessionBody(res *service.LoginResult) map[string]any {
	return map[string]any{
		"success": true,
		"data": map[string]any{
			"user":         res.User,
			"accessToken":  res.AccessToken,
			"refreshToken": res.RefreshToken,
			"accessExp":    res.AccessExp.Unix(),
			"refreshExp":   res.RefreshExp.Unix(),
		},
	}
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "register", "invalid body", err)
	}
	res, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "register", err)
	}
	setSession(c, res)
	return c.JSON(http.StatusCreated, sessionBody(res))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login", "invalid body", err)
	}
	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login", err)
	}
	setSession(c, res)
	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, sessionBody(res))
}

// refreshToken reads the token from the body and falls back to the cookie.
func refreshToken(c echo.Context) string {
	var req transport.RefreshRequest
	if err := c.Bind(&req); err == nil && req.RefreshToken != "" {
		return req.RefreshToken
	}
	if ck, err := c.Cookie(tokens.RefreshCookie); err == nil {
		return ck.Value
	}
	return ""
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	raw := refreshToken(c)
	if raw == "" {
		l.Warn("refresh_error", "status", 401, "reason", "refresh token missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}
	res, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
		c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
		return fail(l, "refresh", err)
	}
	setSession(c, res)
	return c.JSON(http.StatusOK, sessionBody(res))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, refreshToken(c)); err != nil {
		return fail(l, "logout", err)
	}
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/"))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/"))
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	userID, err := currentUser(c, l, "me")
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(ctx, userID)
	if err != nil {
		return fail(l, "me", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": user})
}

func (h *AuthHTTP) UpdateDetails(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_details")

	userID, err := currentUser(c, l, "update_details")
	if err != nil {
		return err
	}
	var req transport.UpdateDetailsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_details", "invalid body", err)
	}
	user, err := h.Svc.UpdateDetails(ctx, userID, req)
	if err != nil {
		return fail(l, "update_details", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": user})
}
