package repo

import (
	"context"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) GetSettings(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	if err := r.DB.WithContext(ctx).Where("id = ?", models.SettingsID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// EnsureSettings inserts defaults unless a row already exists and returns
// the stored row.
func (r *GormRepo) EnsureSettings(ctx context.Context, defaults models.Settings) (*models.Settings, error) {
	defaults.ID = models.SettingsID
	if defaults.Version == 0 {
		defaults.Version = 1
	}
	if err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, err
	}
	return r.GetSettings(ctx)
}

// UpdateSettings writes s when the stored version equals expected and bumps
// the version.
func (r *GormRepo) UpdateSettings(ctx context.Context, s *models.Settings, expected int64) (*models.Settings, error) {
	res := r.DB.WithContext(ctx).Model(&models.Settings{}).
		Where("id = ? AND version = ?", models.SettingsID, expected).
		Updates(map[string]any{
			"store_name":              s.StoreName,
			"store_description":       s.StoreDescription,
			"contact_email":           s.ContactEmail,
			"phone_number":            s.PhoneNumber,
			"address":                 s.Address,
			"enable_notifications":    s.EnableNotifications,
			"maintenance_mode":        s.MaintenanceMode,
			"tax_rate":                s.TaxRate,
			"shipping_fee":            s.ShippingFee,
			"free_shipping_threshold": s.FreeShippingThreshold,
			"currency":                s.Currency,
			"version":                 expected + 1,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStaleVersion
	}
	return r.GetSettings(ctx)
}
