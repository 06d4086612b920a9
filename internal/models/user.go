package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	Phone        string    `                                json:"phone"`
	Address      string    `                                json:"address"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	Role         string    `gorm:"not null"                 json:"role"`
	CreatedAt    time.Time `                                json:"createdAt"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"                json:"id"`
	Token     string    `gorm:"uniqueIndex;not null"      json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"user_id"`
	JTI       string    `gorm:"uniqueIndex;not null"      json:"jti"`
	ExpiresAt int64     `gorm:"not null"                  json:"expires_at"`
	Revoked   bool      `gorm:"not null"                  json:"revoked"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &RefreshToken{},
		&Product{}, &ProductSize{}, &ProductColor{}, &ProductImage{}, &Review{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{},
		&Settings{},
	}
}
