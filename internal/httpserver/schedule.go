package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/school_canteen/internal/service"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

type ScheduleHTTP struct {
	Svc *service.ScheduleService
}

func (h *ScheduleHTTP) DateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "schedule.date_status")

	st, err := h.Svc.DateStatus(ctx, c.QueryParam("date"))
	if err != nil {
		return serviceError(l, "date_status_error", err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *ScheduleHTTP) ListSchedules(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_schedules")

	list, err := h.Svc.ListSchedules(ctx)
	if err != nil {
		return serviceError(l, "list_schedules_error", err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ScheduleHTTP) CreateSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.create_schedule")

	var req transport.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_schedule_error", "invalid body", err)
	}

	sched, err := h.Svc.CreateSchedule(ctx, req)
	if err != nil {
		return serviceError(l, "create_schedule_error", err)
	}

	l.Info("create_schedule_success", "schedule_id", sched.ID)
	return c.JSON(http.StatusCreated, sched)
}

func (h *ScheduleHTTP) UpdateSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_schedule")

	id, err := pathID(c, l, "update_schedule_error")
	if err != nil {
		return err
	}
	var req transport.ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_schedule_error", "invalid body", err)
	}

	sched, err := h.Svc.UpdateSchedule(ctx, id, req)
	if err != nil {
		return serviceError(l, "update_schedule_error", err)
	}

	l.Info("update_schedule_success", "schedule_id", sched.ID)
	return c.JSON(http.StatusOK, sched)
}

func (h *ScheduleHTTP) DeleteSchedule(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_schedule")

	id, err := pathID(c, l, "delete_schedule_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteSchedule(ctx, id); err != nil {
		return serviceError(l, "delete_schedule_error", err)
	}

	l.Info("delete_schedule_success", "schedule_id", id)
	return c.NoContent(http.StatusNoContent)
}
