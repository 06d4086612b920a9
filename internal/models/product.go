package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"              json:"id"`
	Name          string         `gorm:"not null"                          json:"name"`
	Description   string         `gorm:"not null"                          json:"description"`
	Price         float64        `gorm:"not null;index"                    json:"price"`
	OriginalPrice float64        `gorm:"not null"                          json:"originalPrice"`
	Discount      float64        `gorm:"not null"                          json:"discount"`
	Category      string         `gorm:"not null;index"                    json:"category"`
	Subcategory   string         `gorm:"index"                             json:"subcategory"`
	Brand         string         `gorm:"index"                             json:"brand"`
	Stock         int            `gorm:"not null"                          json:"stock"`
	Sizes         []ProductSize  `gorm:"constraint:OnDelete:CASCADE"       json:"sizes"`
	Colors        []ProductColor `gorm:"constraint:OnDelete:CASCADE"       json:"colors"`
	Images        []ProductImage `gorm:"constraint:OnDelete:CASCADE"       json:"images"`
	Ratings       float64        `gorm:"not null;index"                    json:"ratings"`
	NumOfReviews  int            `gorm:"not null"                          json:"numOfReviews"`
	Reviews       []Review       `gorm:"constraint:OnDelete:CASCADE"       json:"reviews,omitempty"`
	IsFeatured    bool           `gorm:"not null"                          json:"isFeatured"`
	IsActive      bool           `gorm:"not null;index"                    json:"isActive"`
	CreatedAt     time.Time      `gorm:"index"                             json:"createdAt"`
	UpdatedAt     time.Time      `                                         json:"updatedAt"`
}

type ProductSize struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"  json:"-"`
	Size      string    `gorm:"not null"                  json:"size"`
	Stock     int       `gorm:"not null"                  json:"stock"`
}

type ProductColor struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"  json:"-"`
	Name      string    `gorm:"not null"                  json:"name"`
	Hex       string    `                                 json:"hex"`
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"  json:"-"`
	URL       string    `gorm:"not null"                  json:"url"`
	PublicID  string    `                                 json:"publicId"`
	Position  int       `gorm:"not null"                  json:"-"`
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user;not null" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_review_user;not null" json:"user"`
	Name      string    `gorm:"not null"                                      json:"name"`
	Rating    int       `gorm:"not null"                                      json:"rating"`
	Comment   string    `                                                     json:"comment"`
	CreatedAt time.Time `                                                     json:"createdAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// FirstImageURL is the image copied into order lines.
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

func (p *Product) OffersSize(size string) bool {
	if len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if s.Size == size {
			return true
		}
	}
	return false
}

func (p *Product) OffersColor(color string) bool {
	if len(p.Colors) == 0 {
		return true
	}
	for _, c := range p.Colors {
		if c.Name == color {
			return true
		}
	}
	return false
}
