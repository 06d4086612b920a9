package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/Skotchmaster/clothing_shop/internal/cache"
	"github.com/Skotchmaster/clothing_shop/internal/config"
	"github.com/Skotchmaster/clothing_shop/internal/db"
	"github.com/Skotchmaster/clothing_shop/internal/es"
	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/media"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/mykafka"
	"github.com/Skotchmaster/clothing_shop/internal/payment/razorpay"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"gorm.io/gorm"
)

// app holds every long lived dependency of a command.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	db     *gorm.DB
	repo   *repo.GormRepo
	events mykafka.Publisher
	redis  *cache.Redis
	audit  *logging.MongoHandler

	settings *service.SettingsService
	catalog  *service.CatalogService
	orders   *service.OrderService
	cart     *service.CartService
	auth     *service.AuthService
	payments *service.PaymentService
}

func newLogger(ctx context.Context, cfg config.Config) (*slog.Logger, *logging.MongoHandler) {
	base := logging.NewHandler(os.Stdout, cfg.LogLevel)
	if cfg.MongoURI == "" {
		return slog.New(base).With("service", cfg.ServiceName), nil
	}

	audit, err := logging.NewMongoHandler(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoAuditCollection, slog.LevelInfo)
	if err != nil {
		l := slog.New(base).With("service", cfg.ServiceName)
		l.Warn("mongo_audit_disabled", "error", err)
		return l, nil
	}
	return slog.New(logging.NewMultiHandler(base, audit)).With("service", cfg.ServiceName), audit
}

func settingsDefaults(cfg config.Config) models.Settings {
	return models.Settings{
		StoreName:             "Clothing Shop",
		TaxRate:               cfg.Pricing.TaxRate,
		ShippingFee:           cfg.Pricing.ShippingFee,
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		Currency:              cfg.Pricing.Currency,
	}
}

// newApp opens the database and the optional backends. Optional backends
// that are configured but unreachable are logged and left disabled.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	l, audit := newLogger(ctx, cfg)
	slog.SetDefault(l)
	ctx = logging.IntoContext(ctx, l)

	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		return nil, err
	}
	r := &repo.GormRepo{DB: gdb}

	a := &app{cfg: cfg, log: l, db: gdb, repo: r, audit: audit, events: mykafka.New(cfg.KafkaBrokers)}

	var store cache.Store
	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err := rdb.Ping(ctx); err != nil {
			l.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		}
		a.redis = rdb
		store = rdb
	}

	var index service.SearchIndex
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, cfg)
		if err != nil {
			l.Warn("elasticsearch_disabled", "error", err)
		} else {
			pi := &es.ProductIndex{Client: client, Index: cfg.ESIndex}
			if err := pi.EnsureIndex(ctx); err != nil {
				l.Warn("elasticsearch_index_error", "index", cfg.ESIndex, "error", err)
			}
			index = pi
		}
	}

	var images media.Store = media.Disabled{}
	if cfg.S3Bucket != "" {
		s3, err := media.NewS3(ctx, media.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
		if err != nil {
			l.Warn("image_store_disabled", "error", err)
		} else {
			images = s3
		}
	}

	var gateway service.PaymentGateway
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = razorpay.NewClient(cfg.RazorpayURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}

	a.settings = &service.SettingsService{Repo: r, Cache: store, TTL: cfg.SettingsCacheTTL, Defaults: settingsDefaults(cfg)}
	a.catalog = &service.CatalogService{Repo: r, Index: index, Images: images, Events: a.events}
	a.orders = &service.OrderService{Repo: r, Settings: a.settings, Events: a.events}
	a.cart = &service.CartService{Repo: r, Orders: a.orders, Events: a.events}
	a.auth = &service.AuthService{
		Repo:          r,
		JWTSecret:     cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
	a.payments = &service.PaymentService{Repo: r, Gateway: gateway, Secret: cfg.RazorpayKeySecret, Events: a.events}
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.events.Close(); err != nil {
		a.log.Error("kafka_close_error", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("redis_close_error", "error", err)
		}
	}
	if err := db.Close(a.db); err != nil {
		a.log.Error("db_close_error", "error", err)
	}
	if a.audit != nil {
		if err := a.audit.Close(ctx); err != nil {
			a.log.Error("mongo_close_error", "error", err)
		}
	}
}
