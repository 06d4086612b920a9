package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cart is one per user. TotalItems and TotalPrice are never stored; they are
// recomputed from the lines on every read.
type Cart struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"             json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"   json:"user"`
	Items      []CartItem `gorm:"constraint:OnDelete:CASCADE"      json:"items"`
	TotalItems int        `gorm:"-"                                json:"totalItems"`
	TotalPrice float64    `gorm:"-"                                json:"totalPrice"`
	CreatedAt  time.Time  `                                        json:"createdAt"`
	UpdatedAt  time.Time  `                                        json:"updatedAt"`
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"              json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null"          json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"          json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity > 0"       json:"quantity"`
	Size      string    `                                         json:"size"`
	Color     string    `                                         json:"color"`
	Price     float64   `gorm:"not null"                          json:"price"`
	CreatedAt time.Time `                                         json:"createdAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Matches reports whether the line holds the same product, size and color.
func (i *CartItem) Matches(productID uuid.UUID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}
