package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	pkgconfig "github.com/Skotchmaster/school_canteen/pkg/config"
)

const (
	DefaultMaxNotesLength  = 500
	DefaultMaxLineQuantity = 20
	DefaultMenuQuantity    = 50
	DefaultMenuHorizonDays = 7
)

// Canteen holds the business settings of the ordering service.
type Canteen struct {
	Location            *time.Location
	MaxNotesLength      int
	MaxLineQuantity     int
	DefaultMenuQuantity int
	MenuHorizonDays     int
}

func LoadCanteen(base pkgconfig.Config) (Canteen, error) {
	loc, err := time.LoadLocation(base.Timezone)
	if err != nil {
		return Canteen{}, fmt.Errorf("load TIMEZONE %q: %w", base.Timezone, err)
	}

	c := Canteen{
		Location:            loc,
		MaxNotesLength:      pkgconfig.EnvIntDefault("MAX_NOTES_LENGTH", DefaultMaxNotesLength),
		MaxLineQuantity:     pkgconfig.EnvIntDefault("MAX_LINE_QUANTITY", DefaultMaxLineQuantity),
		DefaultMenuQuantity: pkgconfig.EnvIntDefault("MENU_DEFAULT_QUANTITY", DefaultMenuQuantity),
		MenuHorizonDays:     pkgconfig.EnvIntDefault("MENU_HORIZON_DAYS", DefaultMenuHorizonDays),
	}
	if c.MaxNotesLength <= 0 {
		return Canteen{}, fmt.Errorf("MAX_NOTES_LENGTH must be positive, got %d", c.MaxNotesLength)
	}
	if c.MaxLineQuantity <= 0 {
		return Canteen{}, fmt.Errorf("MAX_LINE_QUANTITY must be positive, got %d", c.MaxLineQuantity)
	}
	if c.DefaultMenuQuantity < 0 {
		return Canteen{}, fmt.Errorf("MENU_DEFAULT_QUANTITY must not be negative, got %d", c.DefaultMenuQuantity)
	}
	if c.MenuHorizonDays <= 0 {
		return Canteen{}, fmt.Errorf("MENU_HORIZON_DAYS must be positive, got %d", c.MenuHorizonDays)
	}
	return c, nil
}
