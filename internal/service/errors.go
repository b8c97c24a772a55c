package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrConflict   = errors.New("conflict")   // 409

	ErrEmptyCart            = errors.New("empty cart")                // 400
	ErrUnauthorizedChild    = errors.New("unauthorized child")        // 403
	ErrOrderingWindowClosed = errors.New("ordering window closed")    // 422
	ErrItemUnavailable      = errors.New("item unavailable")          // 409
	ErrDailyLimitReached    = errors.New("daily order limit reached") // 409
	ErrInvalidTransition    = errors.New("invalid status transition") // 409
	ErrPersistence          = errors.New("persistence")               // 500
)

const (
	ReasonNotFound     = "not_found"
	ReasonNotAvailable = "not_available"
	ReasonWrongDate    = "wrong_date"
	ReasonInactiveFood = "food_inactive"
	ReasonSoldOut      = "insufficient_quantity"
)

// ItemUnavailableError names the menu entry that rejected a cart line.
type ItemUnavailableError struct {
	DailyMenuID uuid.UUID
	Reason      string
}

func (e *ItemUnavailableError) Error() string {
	return fmt.Sprintf("item unavailable: daily menu %s: %s", e.DailyMenuID, e.Reason)
}

func (e *ItemUnavailableError) Is(target error) bool {
	return target == ErrItemUnavailable
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// storeErr maps a missing row to ErrNotFound and anything else to ErrPersistence.
func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return persistenceErr(op, err)
}
