package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusReturned   OrderStatus = "Returned"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type ShippingInfo struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type PaymentInfo struct {
	Method          string     `json:"method"`
	ID              string     `json:"id"`
	ProviderOrderID string     `gorm:"index" json:"providerOrderId"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
}

// Order prices are computed once at creation and never recomputed.
type Order struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"                  json:"id"`
	UserID        uuid.UUID    `gorm:"type:uuid;index;not null"              json:"user"`
	OrderItems    []OrderItem  `gorm:"constraint:OnDelete:CASCADE"           json:"orderItems"`
	ShippingInfo  ShippingInfo `gorm:"embedded;embeddedPrefix:shipping_"     json:"shippingInfo"`
	PaymentInfo   PaymentInfo  `gorm:"embedded;embeddedPrefix:payment_"      json:"paymentInfo"`
	ItemsPrice    float64      `gorm:"not null"                              json:"itemsPrice"`
	TaxPrice      float64      `gorm:"not null"                              json:"taxPrice"`
	ShippingPrice float64      `gorm:"not null"                              json:"shippingPrice"`
	TotalPrice    float64      `gorm:"not null"                              json:"totalPrice"`
	OrderStatus   OrderStatus  `gorm:"not null;index"                        json:"orderStatus"`
	ShippedAt     *time.Time   `                                             json:"shippedAt,omitempty"`
	DeliveredAt   *time.Time   `                                             json:"deliveredAt,omitempty"`
	CreatedAt     time.Time    `gorm:"index"                                 json:"createdAt"`
	UpdatedAt     time.Time    `                                             json:"updatedAt"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"   json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"         json:"product"`
	Name      string    `gorm:"not null"                   json:"name"`
	Price     float64   `gorm:"not null"                   json:"price"`
	Quantity  int       `gorm:"not null"                   json:"quantity"`
	Size      string    `                                  json:"size"`
	Color     string    `                                  json:"color"`
	Image     string    `                                  json:"image"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
