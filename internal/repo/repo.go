package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrAlreadyReviewed = errors.New("product already reviewed")
	ErrStaleVersion    = errors.New("stale version")
	ErrStatusChanged   = errors.New("order status changed concurrently")
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn with a repo bound to a single database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
