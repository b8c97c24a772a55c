package service

import (
	"time"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

type Clock interface {
	Now() time.Time
}

// SystemClock reports wall-clock time in the canteen's time zone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// dateOf formats t as a calendar date in t's own location.
func dateOf(t time.Time) string {
	return t.Format(models.DateLayout)
}
