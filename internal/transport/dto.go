package transport

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

type CartItem struct {
	DailyMenuID uuid.UUID `json:"daily_menu_id"`
	Quantity    int       `json:"quantity"`
}

type CreateOrderRequest struct {
	ChildID       uuid.UUID  `json:"child_id"`
	Items         []CartItem `json:"items"`
	Notes         string     `json:"notes"`
	DeliveryDate  string     `json:"delivery_date"`
	PaymentMethod string     `json:"payment_method"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type CreateFoodRequest struct {
	Name        string              `json:"name"        yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Category    models.FoodCategory `json:"category"    yaml:"category"`
	BasePrice   int64               `json:"base_price"  yaml:"base_price"`
	ImageURL    string              `json:"image_url"   yaml:"image_url"`
}

type PatchFoodRequest struct {
	Name        *string              `json:"name"`
	Description *string              `json:"description"`
	Category    *models.FoodCategory `json:"category"`
	BasePrice   *int64               `json:"base_price"`
	ImageURL    *string              `json:"image_url"`
	IsActive    *bool                `json:"is_active"`
}

type CreateMenuRequest struct {
	MenuDate    string    `json:"menu_date"`
	FoodItemID  uuid.UUID `json:"food_item_id"`
	Price       *int64    `json:"price"`
	MaxQuantity *int      `json:"max_quantity"`
}

type PatchMenuRequest struct {
	Price             *int64 `json:"price"`
	IsAvailable       *bool  `json:"is_available"`
	MaxQuantity       *int   `json:"max_quantity"`
	RemainingQuantity *int   `json:"remaining_quantity"`
}

type PopulateMenusRequest struct {
	Days     int `json:"days"`
	Quantity int `json:"quantity"`
}

type ScheduleRequest struct {
	ScheduleDate     *string `json:"schedule_date"`
	IsWeekendEnabled bool    `json:"is_weekend_enabled"`
	MaxOrdersPerDay  *int    `json:"max_orders_per_day"`
	OrderStartTime   *string `json:"order_start_time"`
	OrderEndTime     *string `json:"order_end_time"`
}

type CreateChildRequest struct {
	Name      string `json:"name"`
	ClassName string `json:"class"`
}
