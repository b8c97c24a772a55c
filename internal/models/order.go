package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uuid.UUID   `gorm:"primaryKey"                          json:"id"`
	ParentID      uuid.UUID   `gorm:"index;not null"                      json:"parent_id"`
	ChildID       uuid.UUID   `gorm:"index;not null"                      json:"child_id"`
	Child         *Child      `gorm:"foreignKey:ChildID"                  json:"child,omitempty"`
	OrderDate     string      `gorm:"type:varchar(10);not null"           json:"order_date"`
	DeliveryDate  string      `gorm:"type:varchar(10);not null;index"     json:"delivery_date"`
	TotalAmount   int64       `gorm:"not null;check:total_amount >= 0"    json:"total_amount"`
	Status        OrderStatus `gorm:"type:varchar(16);not null;index"     json:"status"`
	PaymentMethod string      `gorm:"type:varchar(32)"                    json:"payment_method"`
	Notes         string      `                                           json:"notes"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"                  json:"items"`
	CreatedAt     time.Time   `                                           json:"created_at"`
	UpdatedAt     time.Time   `                                           json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem captures the unit price at order time; later menu price edits do not affect it.
type OrderItem struct {
	ID          uuid.UUID  `gorm:"primaryKey"                   json:"id"`
	OrderID     uuid.UUID  `gorm:"index;not null"               json:"order_id"`
	DailyMenuID uuid.UUID  `gorm:"index;not null"               json:"daily_menu_id"`
	DailyMenu   *DailyMenu `gorm:"foreignKey:DailyMenuID"       json:"daily_menu,omitempty"`
	Quantity    int        `gorm:"not null;check:quantity > 0"  json:"quantity"`
	UnitPrice   int64      `gorm:"not null"                     json:"unit_price"`
	Subtotal    int64      `gorm:"not null"                     json:"subtotal"`
	CreatedAt   time.Time  `                                    json:"created_at"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// OrderSchedule is an ordering policy. A nil ScheduleDate marks the global default;
// a set ScheduleDate overrides the default for that date only.
type OrderSchedule struct {
	ID               uuid.UUID `gorm:"primaryKey"                         json:"id"`
	ScheduleDate     *string   `gorm:"type:varchar(10);uniqueIndex"       json:"schedule_date"`
	IsWeekendEnabled bool      `gorm:"not null"                           json:"is_weekend_enabled"`
	MaxOrdersPerDay  *int      `                                          json:"max_orders_per_day"`
	OrderStartTime   *string   `gorm:"type:varchar(5)"                    json:"order_start_time"`
	OrderEndTime     *string   `gorm:"type:varchar(5)"                    json:"order_end_time"`
	CreatedAt        time.Time `                                          json:"created_at"`
	UpdatedAt        time.Time `                                          json:"updated_at"`
}

func (s *OrderSchedule) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func All() []any {
	return []any{&FoodItem{}, &DailyMenu{}, &Child{}, &Order{}, &OrderItem{}, &OrderSchedule{}}
}
