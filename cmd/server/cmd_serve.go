package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/config"
	"github.com/Skotchmaster/clothing_shop/internal/db"
	"github.com/Skotchmaster/clothing_shop/internal/httpserver"
	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/maintenance"
	authmw "github.com/Skotchmaster/clothing_shop/internal/middleware/auth"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		cfg.MustServe()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		ctx = logging.IntoContext(ctx, a.log)

		if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
			if _, err := a.auth.EnsureAdmin(ctx, "Admin", cfg.AdminEmail, cfg.AdminPassword); err != nil {
				a.log.Error("admin_bootstrap_error", "email", cfg.AdminEmail, "error", err)
			} else {
				a.log.Info("admin_bootstrap_done", "email", cfg.AdminEmail)
			}
		}

		authMW := authmw.NewAutoRefreshMiddleware(cfg.JWTAccessSecret, a.auth)
		e := httpserver.New(&httpserver.Deps{
			Logger:          a.log,
			CatalogHandler:  &httpserver.CatalogHTTP{Svc: a.catalog, Users: a.auth},
			CartHandler:     &httpserver.CartHTTP{Svc: a.cart},
			OrderHandler:    &httpserver.OrderHTTP{Svc: a.orders},
			SettingsHandler: &httpserver.SettingsHTTP{Svc: a.settings},
			AuthHandler:     &httpserver.AuthHTTP{Svc: a.auth},
			PaymentHandler:  &httpserver.PaymentHTTP{Svc: a.payments, KeyID: cfg.RazorpayKeyID},
			Auth:            authMW,
			Maintenance:     maintenance.NewGate(a.settings, authMW.IsAdminRequest),
			Ready:           func(ctx context.Context) error { return db.Ping(ctx, a.db) },
			CORSOrigins:     cfg.CORSOrigins,
			CSRFProtect:     cfg.CSRFProtect,
		})

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
			Handler:      e,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.log.Info("http_listen", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				a.log.Error("http server error", "error", err)
			}
		}
		a.log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Error("server shutdown error", "error", err)
		}
		a.Close(shutdownCtx)

		a.log.Info("shutdown complete")
		return nil
	},
}
