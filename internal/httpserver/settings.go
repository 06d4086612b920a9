package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/labstack/echo/v4"
)

type SettingsHTTP struct {
	Svc *service.SettingsService
}

func (h *SettingsHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.get")

	st, err := h.Svc.Get(ctx)
	if err != nil {
		return fail(l, "get_settings", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": st})
}

func (h *SettingsHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.update")

	var req transport.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_settings", "invalid body", err)
	}
	st, err := h.Svc.Update(ctx, req)
	if err != nil {
		return fail(l, "update_settings", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": st})
}

func (h *SettingsHTTP) Maintenance(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "settings.maintenance")

	on, err := h.Svc.MaintenanceMode(ctx)
	if err != nil {
		return fail(l, "get_maintenance", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "maintenanceMode": on})
}
