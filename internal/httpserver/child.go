package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/school_canteen/internal/service"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

type ChildHTTP struct {
	Svc *service.ChildService
}

func (h *ChildHTTP) ListChildren(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "child.list_children")

	parentID, err := callerID(c, l, "list_children_error")
	if err != nil {
		return err
	}

	children, err := h.Svc.ListChildren(ctx, parentID)
	if err != nil {
		return serviceError(l, "list_children_error", err)
	}
	return c.JSON(http.StatusOK, children)
}

func (h *ChildHTTP) CreateChild(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "child.create_child")

	parentID, err := callerID(c, l, "create_child_error")
	if err != nil {
		return err
	}

	var req transport.CreateChildRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_child_error", "invalid body", err)
	}

	child, err := h.Svc.CreateChild(ctx, parentID, req)
	if err != nil {
		return serviceError(l, "create_child_error", err)
	}

	l.Info("create_child_success", "child_id", child.ID)
	return c.JSON(http.StatusCreated, child)
}
