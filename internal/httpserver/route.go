package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Skotchmaster/school_canteen/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler    *OrderHTTP
	MenuHandler     *MenuHTTP
	ChildHandler    *ChildHTTP
	ScheduleHandler *ScheduleHTTP
	JWTSecret       []byte
	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "not_ready", "message": err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAuth(d.JWTSecret)

	api := e.Group("/api/v1", authMW.RequireAuth)
	api.GET("/menus", d.MenuHandler.ListMenus)
	api.GET("/foods/search", d.MenuHandler.SearchFoods)
	api.GET("/children", d.ChildHandler.ListChildren)
	api.POST("/children", d.ChildHandler.CreateChild)
	api.GET("/orders", d.OrderHandler.ListOrders)
	api.POST("/orders", d.OrderHandler.CreateOrder)
	api.GET("/orders/:id", d.OrderHandler.GetOrder)
	api.POST("/orders/:id/cancel", d.OrderHandler.CancelOrder)
	api.GET("/schedule/status", d.ScheduleHandler.DateStatus)

	admin := e.Group("/api/v1/admin", authMW.RequireStaff)
	admin.GET("/foods", d.MenuHandler.ListFoods)
	admin.POST("/foods", d.MenuHandler.CreateFood)
	admin.PATCH("/foods/:id", d.MenuHandler.PatchFood)
	admin.DELETE("/foods/:id", d.MenuHandler.DeleteFood)

	admin.GET("/menus", d.MenuHandler.AdminListMenus)
	admin.POST("/menus", d.MenuHandler.CreateMenu)
	admin.PATCH("/menus/:id", d.MenuHandler.PatchMenu)
	admin.POST("/menus/populate", d.MenuHandler.PopulateMenus)

	admin.GET("/orders", d.OrderHandler.AdminListOrders)
	admin.GET("/orders/:id", d.OrderHandler.AdminGetOrder)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
	admin.GET("/recap", d.OrderHandler.Recap)
	admin.GET("/stats", d.OrderHandler.Stats)

	admin.GET("/schedules", d.ScheduleHandler.ListSchedules)
	admin.POST("/schedules", d.ScheduleHandler.CreateSchedule)
	admin.PUT("/schedules/:id", d.ScheduleHandler.UpdateSchedule)
	admin.DELETE("/schedules/:id", d.ScheduleHandler.DeleteSchedule)
}
