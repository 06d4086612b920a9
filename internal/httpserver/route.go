package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/maintenance"
	"github.com/Skotchmaster/clothing_shop/internal/metrics"
	authmw "github.com/Skotchmaster/clothing_shop/internal/middleware/auth"
	"github.com/Skotchmaster/clothing_shop/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/clothing_shop/internal/middleware/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Deps struct {
	Logger *slog.Logger

	CatalogHandler  *CatalogHTTP
	CartHandler     *CartHTTP
	OrderHandler    *OrderHTTP
	SettingsHandler *SettingsHTTP
	AuthHandler     *AuthHTTP
	PaymentHandler  *PaymentHTTP

	Auth        *authmw.AutoRefreshMiddleware
	Maintenance *maintenance.Gate

	// Ready backs /health/ready, usually a database ping.
	Ready func(ctx context.Context) error

	CORSOrigins []string
	CSRFProtect bool
}

// New builds the echo instance with the middleware chain and every route.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(loggingmw.RequestLogger(d.Logger))
	e.Use(metrics.Middleware())

	cors := middleware.DefaultCORSConfig
	cors.AllowCredentials = true
	if len(d.CORSOrigins) > 0 {
		cors.AllowOrigins = d.CORSOrigins
	}
	e.Use(middleware.CORSWithConfig(cors))

	if d.CSRFProtect {
		e.Use(csrf.Middleware(csrf.Config{SkipPaths: []string{"/api/auth/login", "/api/auth/register"}}))
	}
	if d.Maintenance != nil {
		e.Use(d.Maintenance.Middleware())
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				d.Logger.Error("readiness_error", "error", err)
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	authMW := d.Auth

	products := api.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/featured", d.CatalogHandler.Featured)
	products.GET("/search", d.CatalogHandler.Search)
	products.GET("/category/:category", d.CatalogHandler.ByCategory)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("/:id/reviews", d.CatalogHandler.AddReview, authMW.RequireAuth)
	products.POST("", d.CatalogHandler.CreateProduct, authMW.RequireAdmin)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, authMW.RequireAdmin)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, authMW.RequireAdmin)

	cart := api.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/checkout", d.CartHandler.Checkout)
	cart.PUT("/:itemId", d.CartHandler.UpdateItem)
	cart.DELETE("/:itemId", d.CartHandler.RemoveItem)

	orders := api.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/myorders", d.OrderHandler.MyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.GET("", d.OrderHandler.ListOrders, authMW.RequireAdmin)
	orders.PUT("/:id", d.OrderHandler.UpdateStatus, authMW.RequireAdmin)
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, authMW.RequireAdmin)

	settings := api.Group("/settings")
	settings.GET("", d.SettingsHandler.Get, authMW.RequireAdmin)
	settings.GET("/maintenance", d.SettingsHandler.Maintenance)
	settings.PUT("", d.SettingsHandler.Update, authMW.RequireAdmin)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)
	auth.PUT("/updatedetails", d.AuthHandler.UpdateDetails, authMW.RequireAuth)

	payment := api.Group("/payment")
	payment.POST("/create-razorpay", d.PaymentHandler.CreateRazorpay, authMW.RequireAuth)
	payment.POST("/verify-razorpay", d.PaymentHandler.VerifyRazorpay, authMW.RequireAuth)

	admin := api.Group("/admin", authMW.RequireAdmin)
	admin.GET("/settings", d.SettingsHandler.Get)
	admin.PUT("/settings", d.SettingsHandler.Update)
	admin.GET("/orders", d.OrderHandler.ListOrders)
	admin.POST("/products/reindex", d.CatalogHandler.Reindex)
}
