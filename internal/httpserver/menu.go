package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/school_canteen/internal/service"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/internal/util"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

// ListMenus shows parents what can be ordered for a date.
func (h *MenuHTTP) ListMenus(c echo.Context) error {
	return h.listMenus(c, true, "menu.list_menus")
}

func (h *MenuHTTP) AdminListMenus(c echo.Context) error {
	return h.listMenus(c, false, "admin.list_menus")
}

func (h *MenuHTTP) listMenus(c echo.Context, availableOnly bool, handler string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	menus, err := h.Svc.ListDailyMenus(ctx, c.QueryParam("date"), availableOnly)
	if err != nil {
		return serviceError(l, "list_menus_error", err)
	}
	return c.JSON(http.StatusOK, menus)
}

func (h *MenuHTTP) SearchFoods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search_foods")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.SearchFoods(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return serviceError(l, "search_foods_error", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": util.Meta(page, offset, limit, total),
	})
}

func (h *MenuHTTP) ListFoods(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_foods")

	items, err := h.Svc.ListFoods(ctx, c.QueryParam("active") == "true")
	if err != nil {
		return serviceError(l, "list_foods_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) CreateFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_food")

	var req transport.CreateFoodRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_food_error", "invalid body", err)
	}

	item, err := h.Svc.CreateFood(ctx, req)
	if err != nil {
		return serviceError(l, "create_food_error", err)
	}

	l.Info("create_food_success", "food_item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) PatchFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_food")

	id, err := pathID(c, l, "patch_food_error")
	if err != nil {
		return err
	}
	var req transport.PatchFoodRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_food_error", "invalid body", err)
	}

	item, err := h.Svc.PatchFood(ctx, id, req)
	if err != nil {
		return serviceError(l, "patch_food_error", err)
	}

	l.Info("patch_food_success", "food_item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) DeleteFood(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_food")

	id, err := pathID(c, l, "delete_food_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeactivateFood(ctx, id); err != nil {
		return serviceError(l, "delete_food_error", err)
	}

	l.Info("delete_food_success", "food_item_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *MenuHTTP) CreateMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_menu")

	var req transport.CreateMenuRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_menu_error", "invalid body", err)
	}

	menu, err := h.Svc.CreateDailyMenu(ctx, req)
	if err != nil {
		return serviceError(l, "create_menu_error", err)
	}

	l.Info("create_menu_success", "daily_menu_id", menu.ID)
	return c.JSON(http.StatusCreated, menu)
}

func (h *MenuHTTP) PatchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.patch_menu")

	id, err := pathID(c, l, "patch_menu_error")
	if err != nil {
		return err
	}
	var req transport.PatchMenuRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "patch_menu_error", "invalid body", err)
	}

	menu, err := h.Svc.PatchDailyMenu(ctx, id, req)
	if err != nil {
		return serviceError(l, "patch_menu_error", err)
	}
	return c.JSON(http.StatusOK, menu)
}

func (h *MenuHTTP) PopulateMenus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.populate_menus")

	var req transport.PopulateMenusRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(l, "populate_menus_error", "invalid body", err)
		}
	}

	created, err := h.Svc.PopulateDailyMenus(ctx, req.Days, req.Quantity)
	if err != nil {
		return serviceError(l, "populate_menus_error", err)
	}

	l.Info("populate_menus_success", "created", created)
	return c.JSON(http.StatusOK, map[string]any{"created": created})
}
