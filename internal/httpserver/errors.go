package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/school_canteen/internal/service"
	middleware "github.com/Skotchmaster/school_canteen/pkg/middleware/auth"
)

type errorKind struct {
	target error
	status int
	code   string
}

// Checked in order; ErrEmptyCart precedes the generic validation kind.
var errorKinds = []errorKind{
	{service.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
	{service.ErrValidation, http.StatusBadRequest, "validation"},
	{service.ErrUnauthorizedChild, http.StatusForbidden, "unauthorized_child"},
	{service.ErrOrderingWindowClosed, http.StatusUnprocessableEntity, "ordering_window_closed"},
	{service.ErrItemUnavailable, http.StatusConflict, "item_unavailable"},
	{service.ErrDailyLimitReached, http.StatusConflict, "daily_limit_reached"},
	{service.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{service.ErrConflict, http.StatusConflict, "conflict"},
	{service.ErrNotFound, http.StatusNotFound, "not_found"},
}

func classify(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.target) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

// serviceError logs err under event and converts it into the JSON error response for its kind.
func serviceError(l *slog.Logger, event string, err error) error {
	status, code := classify(err)
	body := echo.Map{"error": code, "message": err.Error()}

	var unavailable *service.ItemUnavailableError
	if errors.As(err, &unavailable) {
		body["daily_menu_id"] = unavailable.DailyMenuID
		body["reason"] = unavailable.Reason
	}

	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", code, "error", err)
		body["message"] = "internal error"
		return echo.NewHTTPError(status, body).SetInternal(err)
	}
	l.Warn(event, "status", status, "reason", code, "error", err)
	return echo.NewHTTPError(status, body)
}

func badRequest(l *slog.Logger, event, reason string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, echo.Map{"error": "validation", "message": reason})
}

func pathID(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, badRequest(l, event, "id is not a uuid", err)
	}
	return id, nil
}

func callerID(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	id, err := middleware.UserID(c)
	if err != nil {
		l.Warn(event, "status", http.StatusUnauthorized, "reason", "no authenticated user", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": "unauthorized"})
	}
	return id, nil
}
