package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Create(order).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := preloadOrder(r.DB.WithContext(ctx)).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders := []models.Order{}
	if err := preloadOrder(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := preloadOrder(r.DB.WithContext(ctx)).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus moves the order from one status to another only if it
// still holds the expected one.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus, at time.Time) error {
	updates := map[string]any{"order_status": to}
	switch to {
	case models.OrderStatusShipped:
		updates["shipped_at"] = at
	case models.OrderStatusDelivered:
		updates["delivered_at"] = at
	}

	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusChanged
	}
	return nil
}

func (r *GormRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *GormRepo) SetProviderOrderID(ctx context.Context, orderID, userID uuid.UUID, providerOrderID string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND user_id = ?", orderID, userID).
		Update("payment_provider_order_id", providerOrderID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkPaid flags the user's orders carrying providerOrderID as paid and
// reports whether any matched.
func (r *GormRepo) MarkPaid(ctx context.Context, userID uuid.UUID, providerOrderID, paymentID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("payment_provider_order_id = ? AND user_id = ?", providerOrderID, userID).
		Updates(map[string]any{
			"payment_status":  models.PaymentStatusPaid,
			"payment_id":      paymentID,
			"payment_paid_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) GetOrderByProviderOrderID(ctx context.Context, userID uuid.UUID, providerOrderID string) (*models.Order, error) {
	var order models.Order
	if err := preloadOrder(r.DB.WithContext(ctx)).
		Where("payment_provider_order_id = ? AND user_id = ?", providerOrderID, userID).
		Order("created_at DESC").
		First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
