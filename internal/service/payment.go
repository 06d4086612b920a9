package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/mykafka"
	"github.com/Skotchmaster/clothing_shop/internal/payment/razorpay"
	"github.com/Skotchmaster/clothing_shop/internal/pricing"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
)

type PaymentGateway interface {
	CreateOrder(ctx context.Context, in razorpay.OrderRequest) (*razorpay.Order, error)
}

type PaymentService struct {
	Repo    *repo.GormRepo
	Gateway PaymentGateway
	Secret  string
	Events  mykafka.Publisher
	Now     func() time.Time
}

func (s *PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateRazorpayOrder opens a payment order with the provider. When orderID
// names one of the caller's orders, the provider order id is stored on it.
func (s *PaymentService) CreateRazorpayOrder(ctx context.Context, userID uuid.UUID, req transport.CreateRazorpayRequest) (*razorpay.Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: invalid amount. Amount must be greater than 0", ErrValidation)
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "INR"
	}

	var orderID uuid.UUID
	if req.OrderID != "" {
		id, err := uuid.Parse(req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("%w: orderId must be a uuid", ErrValidation)
		}
		orderID = id
	}

	if s.Gateway == nil {
		return nil, razorpay.ErrNotConfigured
	}
	out, err := s.Gateway.CreateOrder(ctx, razorpay.OrderRequest{
		Amount:         pricing.Paise(req.Amount),
		Currency:       currency,
		Receipt:        fmt.Sprintf("receipt_%d", s.now().UnixMilli()),
		PaymentCapture: 1,
	})
	if err != nil {
		return nil, err
	}

	if orderID != uuid.Nil {
		if err := s.Repo.SetProviderOrderID(ctx, orderID, userID, out.ID); err != nil {
			return nil, notFound(err, "order")
		}
	}
	return out, nil
}

// VerifyRazorpayPayment checks the provider signature and marks the caller's
// matching order paid. A valid payment without a matching order is not an error.
func (s *PaymentService) VerifyRazorpayPayment(ctx context.Context, userID uuid.UUID, req transport.VerifyRazorpayRequest) (*models.Order, error) {
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return nil, fmt.Errorf("%w: missing required payment verification parameters", ErrValidation)
	}
	if !razorpay.VerifySignature(s.Secret, req.OrderID, req.PaymentID, req.Signature) {
		logging.FromContext(ctx).Warn("payment_signature_invalid", "razorpay_order_id", req.OrderID)
		return nil, fmt.Errorf("%w: invalid payment signature", ErrValidation)
	}

	matched, err := s.Repo.MarkPaid(ctx, userID, req.OrderID, req.PaymentID, s.now())
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, nil
	}

	order, err := s.Repo.GetOrderByProviderOrderID(ctx, userID, req.OrderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	mykafka.Emit(ctx, s.Events, mykafka.TopicOrders, order.UserID.String(), map[string]any{
		"type":       "order_paid",
		"order_id":   order.ID.String(),
		"payment_id": req.PaymentID,
	})
	return order, nil
}
