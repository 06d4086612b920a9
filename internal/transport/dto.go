package transport

import "io"

type SizeDTO struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type ColorDTO struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type ImageDTO struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ProductRequest is used for both create and update. Nil fields are left
// untouched on update.
type ProductRequest struct {
	Name          *string     `json:"name"`
	Description   *string     `json:"description"`
	Price         *float64    `json:"price"`
	OriginalPrice *float64    `json:"originalPrice"`
	Discount      *float64    `json:"discount"`
	Category      *string     `json:"category"`
	Subcategory   *string     `json:"subcategory"`
	Brand         *string     `json:"brand"`
	Stock         *int        `json:"stock"`
	Sizes         *[]SizeDTO  `json:"sizes"`
	Colors        *[]ColorDTO `json:"colors"`
	Images        *[]ImageDTO `json:"images"`
	IsFeatured    *bool       `json:"isFeatured"`
	IsActive      *bool       `json:"isActive"`
}

// ImageFile is an uploaded file waiting to be stored.
type ImageFile struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

type ShippingInfoDTO struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type PaymentInfoDTO struct {
	Method string `json:"method"`
	ID     string `json:"id"`
	Status string `json:"status"`
}

type OrderLineRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size"`
	Color    string `json:"color"`
}

type CreateOrderRequest struct {
	OrderItems   []OrderLineRequest `json:"orderItems"`
	ShippingInfo ShippingInfoDTO    `json:"shippingInfo"`
	PaymentInfo  PaymentInfoDTO     `json:"paymentInfo"`
}

type CheckoutRequest struct {
	ShippingInfo ShippingInfoDTO `json:"shippingInfo"`
	PaymentInfo  PaymentInfoDTO  `json:"paymentInfo"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

type SettingsRequest struct {
	StoreName             *string  `json:"siteName"`
	StoreDescription      *string  `json:"siteDescription"`
	ContactEmail          *string  `json:"contactEmail"`
	PhoneNumber           *string  `json:"phoneNumber"`
	Address               *string  `json:"address"`
	EnableNotifications   *bool    `json:"enableNotifications"`
	MaintenanceMode       *bool    `json:"maintenanceMode"`
	TaxRate               *float64 `json:"taxRate"`
	ShippingFee           *float64 `json:"shippingFee"`
	FreeShippingThreshold *float64 `json:"freeShippingThreshold"`
	Currency              *string  `json:"currency"`
	Version               *int64   `json:"version"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateDetailsRequest changes only the fields present in the body.
type UpdateDetailsRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateRazorpayRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	OrderID  string  `json:"orderId"`
}

type VerifyRazorpayRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}
