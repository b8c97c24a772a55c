package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DateLayout = "2006-01-02"

type FoodCategory string

const (
	CategoryFood     FoodCategory = "food"
	CategoryBeverage FoodCategory = "beverage"
)

func (c FoodCategory) Valid() bool {
	return c == CategoryFood || c == CategoryBeverage
}

type FoodItem struct {
	ID          uuid.UUID    `gorm:"primaryKey"                       json:"id"`
	Name        string       `gorm:"not null"                         json:"name"`
	Description string       `                                        json:"description"`
	Category    FoodCategory `gorm:"type:varchar(16);not null"        json:"category"`
	BasePrice   int64        `gorm:"not null;check:base_price >= 0"   json:"base_price"`
	ImageURL    string       `                                        json:"image_url"`
	IsActive    bool         `gorm:"not null;index"                   json:"is_active"`
	CreatedAt   time.Time    `                                        json:"created_at"`
	UpdatedAt   time.Time    `                                        json:"updated_at"`
}

func (f *FoodItem) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// DailyMenu is a food item offered on one calendar date.
// A nil MaxQuantity means capacity is not tracked for the entry.
type DailyMenu struct {
	ID                uuid.UUID `gorm:"primaryKey"                                          json:"id"`
	MenuDate          string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_menu_date_food" json:"menu_date"`
	FoodItemID        uuid.UUID `gorm:"not null;uniqueIndex:idx_menu_date_food"             json:"food_item_id"`
	FoodItem          *FoodItem `gorm:"foreignKey:FoodItemID"                               json:"food_item,omitempty"`
	Price             int64     `gorm:"not null;check:price >= 0"                           json:"price"`
	IsAvailable       bool      `gorm:"not null"                                            json:"is_available"`
	MaxQuantity       *int      `                                                           json:"max_quantity"`
	RemainingQuantity *int      `gorm:"check:remaining_quantity >= 0"                       json:"remaining_quantity"`
	CreatedAt         time.Time `                                                           json:"created_at"`
	UpdatedAt         time.Time `                                                           json:"updated_at"`
}

func (m *DailyMenu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type Child struct {
	ID        uuid.UUID `gorm:"primaryKey"      json:"id"`
	ParentID  uuid.UUID `gorm:"index;not null"  json:"parent_id"`
	Name      string    `gorm:"not null"        json:"name"`
	ClassName string    `gorm:"not null"        json:"class"`
	IsActive  bool      `gorm:"not null"        json:"is_active"`
	CreatedAt time.Time `                       json:"created_at"`
	UpdatedAt time.Time `                       json:"updated_at"`
}

func (c *Child) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
