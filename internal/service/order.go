package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/metrics"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/mykafka"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Settings *SettingsService
	Events   mykafka.Publisher
	Now      func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func shippingFrom(in transport.ShippingInfoDTO) (models.ShippingInfo, error) {
	info := models.ShippingInfo{
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		Phone:      strings.TrimSpace(in.Phone),
	}
	if info.Address == "" || info.City == "" || info.PostalCode == "" || info.Country == "" {
		return info, fmt.Errorf("%w: shippingInfo requires address, city, postalCode and country", ErrValidation)
	}
	return info, nil
}

func paymentFrom(in transport.PaymentInfoDTO) models.PaymentInfo {
	info := models.PaymentInfo{
		Method: strings.TrimSpace(in.Method),
		ID:     strings.TrimSpace(in.ID),
		Status: models.PaymentStatusPending,
	}
	if info.Method == "" {
		info.Method = "cod"
	}
	return info
}

// createIn builds and stores an order inside tx. Every line re-reads the
// current product; a missing one aborts the whole order.
func (s *OrderService) createIn(ctx context.Context, tx *repo.GormRepo, userID uuid.UUID, req transport.CreateOrderRequest, policy pricing.Policy) (*models.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, fmt.Errorf("%w: orderItems cannot be empty", ErrValidation)
	}
	shipping, err := shippingFrom(req.ShippingInfo)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.OrderItems))
	lines := make([]pricing.Line, 0, len(req.OrderItems))
	for _, line := range req.OrderItems {
		productID, err := uuid.Parse(line.Product)
		if err != nil {
			return nil, fmt.Errorf("%w: product %q is not a uuid", ErrValidation, line.Product)
		}
		if line.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
		}

		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return nil, notFound(err, "product "+productID.String())
		}

		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  line.Quantity,
			Size:      line.Size,
			Color:     line.Color,
			Image:     p.FirstImageURL(),
		})
		lines = append(lines, pricing.Line{Price: p.Price, Quantity: line.Quantity})
	}

	b := pricing.Order(lines, policy)
	order := &models.Order{
		UserID:        userID,
		OrderItems:    items,
		ShippingInfo:  shipping,
		PaymentInfo:   paymentFrom(req.PaymentInfo),
		ItemsPrice:    b.ItemsPrice,
		TaxPrice:      b.TaxPrice,
		ShippingPrice: b.ShippingPrice,
		TotalPrice:    b.TotalPrice,
		OrderStatus:   models.OrderStatusProcessing,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *OrderService) created(ctx context.Context, o *models.Order) {
	metrics.OrdersCreated.Inc()
	logging.FromContext(ctx).Info("order_created", "order_id", o.ID, "user_id", o.UserID, "total", o.TotalPrice)
	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, o.UserID.String(), map[string]any{
		"type":        "order_created",
		"order_id":    o.ID.String(),
		"user_id":     o.UserID.String(),
		"total_price": o.TotalPrice,
	})
}

func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	policy, err := s.Settings.PricingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	if err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err = s.createIn(ctx, tx, userID, req, policy)
		return err
	}); err != nil {
		return nil, err
	}

	s.created(ctx, order)
	return order, nil
}

func (s *OrderService) MyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByUser(ctx, userID)
}

// Get returns the order to its owner or an admin.
func (s *OrderService) Get(ctx context.Context, id, userID uuid.UUID, isAdmin bool) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if !isAdmin && o.UserID != userID {
		return nil, fmt.Errorf("%w: not your order", ErrForbidden)
	}
	return o, nil
}

// ListAll returns every order and the sum of their totals.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, float64, error) {
	orders, err := s.Repo.ListOrders(ctx)
	if err != nil {
		return nil, 0, err
	}
	lines := make([]pricing.Line, 0, len(orders))
	for _, o := range orders {
		lines = append(lines, pricing.Line{Price: o.TotalPrice, Quantity: 1})
	}
	_, total := pricing.Totals(lines)
	return orders, total, nil
}

func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteOrder(ctx, id); err != nil {
		return notFound(err, "order")
	}
	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, id.String(), map[string]any{
		"type":     "order_deleted",
		"order_id": id.String(),
	})
	return nil
}

// UpdateStatus advances the order. Moving to Shipped decrements stock for
// every line; those decrements are best effort and never fail the update.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id)

	next, err := ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if err := CheckTransition(o.OrderStatus, next); err != nil {
		return nil, err
	}

	err = s.Repo.UpdateOrderStatus(ctx, id, o.OrderStatus, next, s.now())
	if errors.Is(err, repo.ErrStatusChanged) {
		return nil, fmt.Errorf("%w: order status changed, reload and retry", ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	metrics.OrderTransitions.WithLabelValues(string(next)).Inc()

	if next == models.OrderStatusShipped {
		for _, it := range o.OrderItems {
			if err := s.Repo.DecrementStock(ctx, it.ProductID, it.Size, it.Quantity); err != nil {
				metrics.StockDecrements.WithLabelValues("failed").Inc()
				l.Warn("stock_decrement_failed", "product_id", it.ProductID, "size", it.Size, "quantity", it.Quantity, "error", err)
				continue
			}
			metrics.StockDecrements.WithLabelValues("ok").Inc()
		}
	}

	updated, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Info("order_status_updated", "from", o.OrderStatus, "to", next)
	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, updated.UserID.String(), map[string]any{
		"type":     "order_status_changed",
		"order_id": id.String(),
		"from":     string(o.OrderStatus),
		"to":       string(next),
	})
	return updated, nil
}
