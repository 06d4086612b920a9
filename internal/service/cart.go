package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/mykafka"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
)

type CartService struct {
	Repo   *repo.GormRepo
	Orders *OrderService
	Events mykafka.Publisher
}

// withTotals fills the derived totals. They are never read from storage.
func withTotals(c *models.Cart) *models.Cart {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	lines := make([]pricing.Line, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, pricing.Line{Price: it.Price, Quantity: it.Quantity})
	}
	c.TotalItems, c.TotalPrice = pricing.Totals(lines)
	return c
}

// GetCart returns an empty cart view for users who never added anything.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	c, err := s.Repo.GetCart(ctx, userID)
	if repo.IsNotFound(err) {
		return withTotals(&models.Cart{UserID: userID}), nil
	}
	if err != nil {
		return nil, err
	}
	return withTotals(c), nil
}

func (s *CartService) AddToCart(ctx context.Context, userID uuid.UUID, req transport.AddToCartRequest) (*models.Cart, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("%w: productId must be a uuid", ErrValidation)
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}

	p, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, notFound(err, "product")
	}
	if !p.IsActive {
		return nil, fmt.Errorf("product is not available: %w", ErrNotFound)
	}
	if req.Size != "" && !p.OffersSize(req.Size) {
		return nil, fmt.Errorf("%w: size %s is not offered", ErrValidation, req.Size)
	}
	if req.Color != "" && !p.OffersColor(req.Color) {
		return nil, fmt.Errorf("%w: color %s is not offered", ErrValidation, req.Color)
	}

	item := models.CartItem{
		ProductID: productID,
		Quantity:  quantity,
		Size:      req.Size,
		Color:     req.Color,
		Price:     p.Price,
	}
	if err := s.Repo.AddToCart(ctx, userID, &item); err != nil {
		return nil, err
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCart, userID.String(), map[string]any{
		"type":       "cart_item_added",
		"user_id":    userID.String(),
		"product_id": productID.String(),
		"quantity":   quantity,
	})
	return s.GetCart(ctx, userID)
}

func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity *int) (*models.Cart, error) {
	if quantity == nil || *quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if err := s.Repo.UpdateCartItem(ctx, userID, itemID, *quantity); err != nil {
		return nil, notFound(err, "cart item")
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCart, userID.String(), map[string]any{
		"type":     "cart_item_updated",
		"user_id":  userID.String(),
		"item_id":  itemID.String(),
		"quantity": *quantity,
	})
	return s.GetCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	if err := s.Repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		return nil, notFound(err, "cart item")
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCart, userID.String(), map[string]any{
		"type":    "cart_item_removed",
		"user_id": userID.String(),
		"item_id": itemID.String(),
	})
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if err := s.Repo.ClearCart(ctx, userID); err != nil {
		return nil, err
	}

	mykafka.Emit(ctx, s.Events, mykafka.TopicCart, userID.String(), map[string]any{
		"type":    "cart_cleared",
		"user_id": userID.String(),
	})
	return s.GetCart(ctx, userID)
}

// Checkout turns the cart into an order and empties the cart in a single
// transaction, so a failure leaves neither an order nor a cleared cart.
func (s *CartService) Checkout(ctx context.Context, userID uuid.UUID, req transport.CheckoutRequest) (*models.Order, error) {
	policy, err := s.Orders.Settings.PricingPolicy(ctx)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		c, err := tx.GetCart(ctx, userID)
		if repo.IsNotFound(err) || (err == nil && len(c.Items) == 0) {
			return fmt.Errorf("%w: cart is empty", ErrValidation)
		}
		if err != nil {
			return err
		}

		lines := make([]transport.OrderLineRequest, 0, len(c.Items))
		for _, it := range c.Items {
			lines = append(lines, transport.OrderLineRequest{
				Product:  it.ProductID.String(),
				Quantity: it.Quantity,
				Size:     it.Size,
				Color:    it.Color,
			})
		}

		order, err = s.Orders.createIn(ctx, tx, userID, transport.CreateOrderRequest{
			OrderItems:   lines,
			ShippingInfo: req.ShippingInfo,
			PaymentInfo:  req.PaymentInfo,
		}, policy)
		if err != nil {
			return err
		}
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.Orders.created(ctx, order)
	mykafka.Emit(ctx, s.Events, mykafka.TopicCart, userID.String(), map[string]any{
		"type":     "cart_checked_out",
		"user_id":  userID.String(),
		"order_id": order.ID.String(),
	})
	return order, nil
}
