package models

import "time"

// SettingsID is the primary key of the singleton settings row.
const SettingsID uint = 1

type Settings struct {
	ID                    uint      `gorm:"primaryKey"  json:"-"`
	StoreName             string    `gorm:"not null"    json:"siteName"`
	StoreDescription      string    `                   json:"siteDescription"`
	ContactEmail          string    `                   json:"contactEmail"`
	PhoneNumber           string    `                   json:"phoneNumber"`
	Address               string    `                   json:"address"`
	EnableNotifications   bool      `gorm:"not null"    json:"enableNotifications"`
	MaintenanceMode       bool      `gorm:"not null"    json:"maintenanceMode"`
	TaxRate               float64   `gorm:"not null"    json:"taxRate"`
	ShippingFee           float64   `gorm:"not null"    json:"shippingFee"`
	FreeShippingThreshold float64   `gorm:"not null"    json:"freeShippingThreshold"`
	Currency              string    `gorm:"not null"    json:"currency"`
	Version               int64     `gorm:"not null"    json:"version"`
	UpdatedAt             time.Time `                   json:"updatedAt"`
}
