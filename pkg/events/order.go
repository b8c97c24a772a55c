package events

import "time"

const (
	TypeOrderCreated       = "order_created"
	TypeOrderStatusChanged = "order_status_changed"
)

type OrderLine struct {
	DailyMenuID string `json:"daily_menu_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
}

type OrderEvent struct {
	Type           string      `json:"type"`
	OrderID        string      `json:"order_id"`
	ParentID       string      `json:"parent_id"`
	ChildID        string      `json:"child_id"`
	DeliveryDate   string      `json:"delivery_date"`
	Status         string      `json:"status"`
	PreviousStatus string      `json:"previous_status,omitempty"`
	TotalAmount    int64       `json:"total_amount"`
	Lines          []OrderLine `json:"lines,omitempty"`
	OccurredAt     time.Time   `json:"occurred_at"`
}
