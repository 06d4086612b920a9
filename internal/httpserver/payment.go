package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/labstack/echo/v4"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
	// KeyID is the public Razorpay key handed to the browser checkout.
	KeyID string
}

func (h *PaymentHTTP) CreateRazorpay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_razorpay")

	userID, err := currentUser(c, l, "create_razorpay")
	if err != nil {
		return err
	}
	var req transport.CreateRazorpayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_razorpay", "invalid body", err)
	}

	out, err := h.Svc.CreateRazorpayOrder(ctx, userID, req)
	if err != nil {
		return fail(l, "create_razorpay", err)
	}
	l.Info("create_razorpay_success", "razorpay_order_id", out.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"id":       out.ID,
		"amount":   out.Amount,
		"currency": out.Currency,
		"key":      h.KeyID,
	})
}

func (h *PaymentHTTP) VerifyRazorpay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify_razorpay")

	userID, err := currentUser(c, l, "verify_razorpay")
	if err != nil {
		return err
	}
	var req transport.VerifyRazorpayRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "verify_razorpay", "invalid body", err)
	}

	order, err := h.Svc.VerifyRazorpayPayment(ctx, userID, req)
	if err != nil {
		return fail(l, "verify_razorpay", err)
	}
	if order == nil {
		l.Warn("verify_razorpay_unmatched", "razorpay_order_id", req.OrderID)
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"message": "Payment verified successfully, but no matching order found",
		})
	}
	l.Info("verify_razorpay_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Payment verified successfully",
		"order":   order,
	})
}
