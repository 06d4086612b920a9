package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/cache"
	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/metrics"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
)

const settingsCacheKey = "clothing_shop:settings"

// SettingsService owns the singleton settings record. Reads go through the
// cache when one is configured; every write invalidates it.
type SettingsService struct {
	Repo     *repo.GormRepo
	Cache    cache.Store
	TTL      time.Duration
	Defaults models.Settings
}

func (s *SettingsService) load(ctx context.Context) (*models.Settings, error) {
	st, err := s.Repo.GetSettings(ctx)
	if repo.IsNotFound(err) {
		return s.Repo.EnsureSettings(ctx, s.Defaults)
	}
	return st, err
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	l := logging.FromContext(ctx).With("svc", "settings.get")

	if s.Cache != nil {
		var cached models.Settings
		ok, err := s.Cache.Get(ctx, settingsCacheKey, &cached)
		switch {
		case err != nil:
			metrics.CacheResults.WithLabelValues("error").Inc()
			l.Warn("settings_cache_error", "error", err)
		case ok:
			metrics.CacheResults.WithLabelValues("hit").Inc()
			return &cached, nil
		default:
			metrics.CacheResults.WithLabelValues("miss").Inc()
		}
	}

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, settingsCacheKey, st, s.TTL); err != nil {
			l.Warn("settings_cache_error", "error", err)
		}
	}
	return st, nil
}

func (s *SettingsService) MaintenanceMode(ctx context.Context) (bool, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return st.MaintenanceMode, nil
}

func (s *SettingsService) PricingPolicy(ctx context.Context) (pricing.Policy, error) {
	st, err := s.Get(ctx)
	if err != nil {
		return pricing.Policy{}, err
	}
	return pricing.Policy{
		TaxRate:               st.TaxRate,
		ShippingFee:           st.ShippingFee,
		FreeShippingThreshold: st.FreeShippingThreshold,
	}, nil
}

func applySettings(st *models.Settings, req transport.SettingsRequest) error {
	if req.StoreName != nil {
		if strings.TrimSpace(*req.StoreName) == "" {
			return fmt.Errorf("%w: siteName cannot be empty", ErrValidation)
		}
		st.StoreName = strings.TrimSpace(*req.StoreName)
	}
	if req.StoreDescription != nil {
		st.StoreDescription = *req.StoreDescription
	}
	if req.ContactEmail != nil {
		st.ContactEmail = strings.TrimSpace(*req.ContactEmail)
	}
	if req.PhoneNumber != nil {
		st.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		st.Address = *req.Address
	}
	if req.EnableNotifications != nil {
		st.EnableNotifications = *req.EnableNotifications
	}
	if req.MaintenanceMode != nil {
		st.MaintenanceMode = *req.MaintenanceMode
	}
	if req.TaxRate != nil {
		if *req.TaxRate < 0 || *req.TaxRate > 100 {
			return fmt.Errorf("%w: taxRate must be between 0 and 100", ErrValidation)
		}
		st.TaxRate = *req.TaxRate
	}
	if req.ShippingFee != nil {
		if *req.ShippingFee < 0 {
			return fmt.Errorf("%w: shippingFee cannot be negative", ErrValidation)
		}
		st.ShippingFee = *req.ShippingFee
	}
	if req.FreeShippingThreshold != nil {
		if *req.FreeShippingThreshold < 0 {
			return fmt.Errorf("%w: freeShippingThreshold cannot be negative", ErrValidation)
		}
		st.FreeShippingThreshold = *req.FreeShippingThreshold
	}
	if req.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*req.Currency))
		if len(c) != 3 {
			return fmt.Errorf("%w: currency must be a 3 letter code", ErrValidation)
		}
		st.Currency = c
	}
	return nil
}

// Update applies req on top of the stored record. A version in the request
// must match the stored one.
func (s *SettingsService) Update(ctx context.Context, req transport.SettingsRequest) (*models.Settings, error) {
	l := logging.FromContext(ctx).With("svc", "settings.update")

	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if req.Version != nil && *req.Version != current.Version {
		return nil, fmt.Errorf("%w: settings version %d is stale, current is %d", ErrConflict, *req.Version, current.Version)
	}

	next := *current
	if err := applySettings(&next, req); err != nil {
		return nil, err
	}

	updated, err := s.Repo.UpdateSettings(ctx, &next, current.Version)
	if errors.Is(err, repo.ErrStaleVersion) {
		return nil, fmt.Errorf("%w: settings were changed concurrently", ErrConflict)
	}
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, settingsCacheKey); err != nil {
			l.Warn("settings_cache_error", "error", err)
		}
	}
	l.Info("settings_updated", "version", updated.Version, "maintenance_mode", updated.MaintenanceMode)
	return updated, nil
}
