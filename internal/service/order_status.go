package service

import (
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/models"
)

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusProcessing: {
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusReturned,
	},
	models.OrderStatusShipped: {
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusReturned,
	},
}

func ParseOrderStatus(s string) (models.OrderStatus, error) {
	switch st := models.OrderStatus(s); st {
	case models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled, models.OrderStatusReturned:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
}

// CheckTransition reports whether an order may move from one status to another.
func CheckTransition(from, to models.OrderStatus) error {
	if from == models.OrderStatusDelivered {
		return fmt.Errorf("%w: order already delivered", ErrValidation)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot change order status from %s to %s", ErrValidation, from, to)
}
