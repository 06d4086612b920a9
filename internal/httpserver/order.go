package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/clothing_shop/internal/logging"
	authmw "github.com/Skotchmaster/clothing_shop/internal/middleware/auth"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/service"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, err := currentUser(c, l, "create_order")
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order", "invalid body", err)
	}

	order, err := h.Svc.Create(ctx, userID, req)
	if err != nil {
		return fail(l, "create_order", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "data": order})
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := currentUser(c, l, "my_orders")
	if err != nil {
		return err
	}
	orders, err := h.Svc.MyOrders(ctx, userID)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "count": len(orders), "data": orders})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	userID, err := currentUser(c, l, "get_order")
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "get_order", "id is not a uuid", err)
	}

	order, err := h.Svc.Get(ctx, id, userID, authmw.Role(c) == models.RoleAdmin)
	if err != nil {
		return fail(l, "get_order", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": order})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, totalAmount, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"count":       len(orders),
		"totalAmount": totalAmount,
		"data":        orders,
	})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "update_order_status", "id is not a uuid", err)
	}
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_status", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.OrderStatus)
	if err != nil {
		return fail(l, "update_order_status", err)
	}
	l.Info("update_order_status_success", "order_id", id, "status", order.OrderStatus)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "data": order})
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(l, "delete_order", "id is not a uuid", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_order", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "Order deleted successfully"})
}
