package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

type OrderFilter struct {
	ParentID     *uuid.UUID
	ChildID      *uuid.UUID
	Status       *models.OrderStatus
	DeliveryDate string
	ChildName    string
	Offset       int
	Limit        int
}

// CreateOrder inserts the order header followed by its items.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	db := r.DB.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(order).Error; err != nil {
		return err
	}
	if len(order.Items) == 0 {
		return nil
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return db.Omit(clause.Associations).Create(&order.Items).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Preload("Child").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.created_at ASC") }).
		Preload("Items.DailyMenu.FoodItem").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func applyOrderFilter(q *gorm.DB, f OrderFilter) *gorm.DB {
	if f.ParentID != nil {
		q = q.Where("orders.parent_id = ?", *f.ParentID)
	}
	if f.ChildID != nil {
		q = q.Where("orders.child_id = ?", *f.ChildID)
	}
	if f.Status != nil {
		q = q.Where("orders.status = ?", *f.Status)
	}
	if f.DeliveryDate != "" {
		q = q.Where("orders.delivery_date = ?", f.DeliveryDate)
	}
	if name := strings.TrimSpace(f.ChildName); name != "" {
		q = q.Joins("JOIN children ON children.id = orders.child_id").
			Where("LOWER(children.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	return q
}

// ListOrders returns the total number of matching orders and one page of them, newest first.
func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) (int64, []models.Order, error) {
	base := applyOrderFilter(r.DB.WithContext(ctx).Model(&models.Order{}), f)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := base.Session(&gorm.Session{}).
		Preload("Child").
		Preload("Items").
		Preload("Items.DailyMenu.FoodItem").
		Order("orders.created_at DESC, orders.id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// CountActiveOrders counts orders for a delivery date that have not been cancelled.
func (r *GormRepo) CountActiveOrders(ctx context.Context, deliveryDate string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("delivery_date = ? AND status <> ?", deliveryDate, models.OrderStatusCancelled).
		Count(&n).Error
	return n, err
}

// UpdateOrderStatus moves an order from one status to another.
// It reports false when the order is no longer in the expected status.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

type StatusCount struct {
	Status models.OrderStatus
	Count  int64
}

func (r *GormRepo) CountOrdersByStatus(ctx context.Context, deliveryDate string) ([]StatusCount, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Select("status, COUNT(*) AS count")
	if deliveryDate != "" {
		q = q.Where("delivery_date = ?", deliveryDate)
	}

	var rows []StatusCount
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumRevenue totals the amount of every non-cancelled order.
func (r *GormRepo) SumRevenue(ctx context.Context, deliveryDate string) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status <> ?", models.OrderStatusCancelled)
	if deliveryDate != "" {
		q = q.Where("delivery_date = ?", deliveryDate)
	}

	var sum int64
	if err := q.Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}
