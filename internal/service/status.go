package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/pkg/events"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:      {models.OrderStatusPreparing, models.OrderStatusCancelled},
	models.OrderStatusPreparing: {models.OrderStatusReady, models.OrderStatusCancelled},
	models.OrderStatusReady:     {models.OrderStatusCompleted},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses lists the statuses reachable from s in one step; terminal statuses yield an empty slice.
func NextStatuses(s models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus{}, transitions[s]...)
}

// UpdateStatus applies a staff-driven status change.
func (svc *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	return svc.transition(ctx, order, to)
}

// CancelOrder lets a parent withdraw one of their own orders while it is still pending.
func (svc *OrderService) CancelOrder(ctx context.Context, parentID, id uuid.UUID) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	if order.ParentID != parentID {
		return nil, fmt.Errorf("get order: %w", ErrNotFound)
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: only pending orders can be cancelled, order is %s", ErrInvalidTransition, order.Status)
	}
	return svc.transition(ctx, order, models.OrderStatusCancelled)
}

func (svc *OrderService) transition(ctx context.Context, order *models.Order, to models.OrderStatus) (*models.Order, error) {
	from := order.Status
	if !CanTransition(from, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	err := svc.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.UpdateOrderStatus(ctx, order.ID, from, to)
		if err != nil {
			return persistenceErr("update order status", err)
		}
		if !ok {
			return fmt.Errorf("%w: order is no longer %s", ErrInvalidTransition, from)
		}
		if to != models.OrderStatusCancelled {
			return nil
		}

		items, err := tx.ListOrderItems(ctx, order.ID)
		if err != nil {
			return persistenceErr("list order items", err)
		}
		for _, it := range items {
			if err := tx.IncrementRemaining(ctx, it.DailyMenuID, it.Quantity); err != nil {
				return persistenceErr("restock menu entry", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_status_changed", "svc", "order.status", "order_id", order.ID, "from", from, "to", to)

	updated, err := svc.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, storeErr("reload order", err)
	}
	svc.publish(ctx, orderEvent(events.TypeOrderStatusChanged, updated, from, svc.Clock.Now()))
	return updated, nil
}
