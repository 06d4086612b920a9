package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	authmw "github.com/Skotchmaster/clothing_shop/internal/middleware/auth"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func currentUser(c echo.Context, l *slog.Logger, op string) (uuid.UUID, error) {
	userID, err := authmw.UserID(c)
	if err != nil {
		l.Warn(op+"_error", "status", 401, "reason", "unauthorized", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, err := currentUser(c, l, "get_cart")
	if err != nil {
		return err
	}
	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": cart})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	userID, err := currentUser(c, l, "add_to_cart")
	if err != nil {
		return err
	}
	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart", "invalid body", err)
	}

	cart, err := h.Svc.AddToCart(ctx, userID, req)
	if err != nil {
		return fail(l, "add_to_cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": cart})
}

func (h *CartHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := currentUser(c, l, "update_cart_item")
	if err != nil {
		return err
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return badRequest(l, "update_cart_item", "itemId is not a uuid", err)
	}
	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_cart_item", "invalid body", err)
	}

	cart, err := h.Svc.UpdateItem(ctx, userID, itemID, req.Quantity)
	if err != nil {
		return fail(l, "update_cart_item", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": cart})
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := currentUser(c, l, "remove_cart_item")
	if err != nil {
		return err
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		return badRequest(l, "remove_cart_item", "itemId is not a uuid", err)
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		return fail(l, "remove_cart_item", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": cart})
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := currentUser(c, l, "clear_cart")
	if err != nil {
		return err
	}
	cart, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": cart})
}

func (h *CartHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	userID, err := currentUser(c, l, "checkout")
	if err != nil {
		return err
	}
	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout", "invalid body", err)
	}

	order, err := h.Svc.Checkout(ctx, userID, req)
	if err != nil {
		return fail(l, "checkout", err)
	}
	l.Info("checkout_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": order})
}
