package maintenance

import (
	"context"
	"net/http"
	"sync"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/metrics"
	"github.com/labstack/echo/v4"
)

type FlagSource interface {
	MaintenanceMode(ctx context.Context) (bool, error)
}

// Gate blocks requests while the maintenance flag is on. The flag is read on
// every request; when the read fails the last value seen is used, and with
// no value seen yet the gate fails closed.
type Gate struct {
	Source  FlagSource
	Policy  Policy
	IsAdmin func(c echo.Context) bool

	mu    sync.RWMutex
	known bool
	last  bool
}

func NewGate(src FlagSource, isAdmin func(c echo.Context) bool) *Gate {
	return &Gate{Source: src, Policy: DefaultPolicy(), IsAdmin: isAdmin}
}

func (g *Gate) Enabled(ctx context.Context) bool {
	on, err := g.Source.MaintenanceMode(ctx)
	if err == nil {
		g.mu.Lock()
		g.known, g.last = true, on
		g.mu.Unlock()
		return on
	}

	g.mu.RLock()
	known, last := g.known, g.last
	g.mu.RUnlock()
	logging.FromContext(ctx).Warn("maintenance_flag_error", "error", err, "last_known", known)
	if !known {
		return true
	}
	return last
}

func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.Enabled(c.Request().Context()) {
				return next(c)
			}
			admin := g.IsAdmin != nil && g.IsAdmin(c)
			if g.Policy.Allows(true, c.Request().URL.Path, admin) {
				return next(c)
			}

			metrics.MaintenanceBlocked.Inc()
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"success":         false,
				"message":         "System Under Maintenance",
				"maintenanceMode": true,
			})
		}
	}
}
