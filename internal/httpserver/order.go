package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/school_canteen/internal/service"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/internal/util"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
	middleware "github.com/Skotchmaster/school_canteen/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	parentID, err := callerID(c, l, "create_order_error")
	if err != nil {
		return err
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_order_error", "invalid body", err)
	}

	order, err := h.Svc.SubmitOrder(ctx, parentID, req)
	if err != nil {
		return serviceError(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	parentID, err := callerID(c, l, "list_orders_error")
	if err != nil {
		return err
	}

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListParentOrders(ctx, parentID, offset, limit)
	if err != nil {
		return serviceError(l, "list_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	parentID, err := callerID(c, l, "get_order_error")
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetParentOrder(ctx, parentID, id)
	if err != nil {
		return serviceError(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	parentID, err := callerID(c, l, "cancel_order_error")
	if err != nil {
		return err
	}
	id, err := pathID(c, l, "cancel_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.CancelOrder(ctx, parentID, id)
	if err != nil {
		return serviceError(l, "cancel_order_error", err)
	}

	l.Info("cancel_order_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) AdminListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Svc.ListOrders(ctx, service.OrderQuery{
		Status:       c.QueryParam("status"),
		DeliveryDate: c.QueryParam("date"),
		ChildName:    c.QueryParam("q"),
		Offset:       offset,
		Limit:        limit,
	})
	if err != nil {
		return serviceError(l, "admin_list_orders_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": orders,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) AdminGetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_order")

	id, err := pathID(c, l, "admin_get_order_error")
	if err != nil {
		return err
	}

	detail, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return serviceError(l, "admin_get_order_error", err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status", "role", middleware.Role(c))

	id, err := pathID(c, l, "update_order_status_error")
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_order_status_error", "invalid body", err)
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return serviceError(l, "update_order_status_error", err)
	}

	l.Info("update_order_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Recap(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.recap")

	recap, err := h.Svc.Recap(ctx, c.QueryParam("date"))
	if err != nil {
		return serviceError(l, "recap_error", err)
	}
	return c.JSON(http.StatusOK, recap)
}

func (h *OrderHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	stats, err := h.Svc.Stats(ctx, c.QueryParam("date"))
	if err != nil {
		return serviceError(l, "stats_error", err)
	}
	return c.JSON(http.StatusOK, stats)
}
