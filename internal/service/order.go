package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/school_canteen/internal/config"
	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/transport"
	"github.com/Skotchmaster/school_canteen/pkg/events"
	"github.com/Skotchmaster/school_canteen/pkg/logging"
)

type OrderService struct {
	Repo            *repo.GormRepo
	Clock           Clock
	Events          events.Publisher
	MaxNotesLength  int
	MaxLineQuantity int
}

type cartLine struct {
	DailyMenuID uuid.UUID
	Quantity    int
}

// mergeCart validates the cart lines and folds repeated menu entries into one
// line, keeping the position of the first occurrence.
func mergeCart(items []transport.CartItem, maxQty int) ([]cartLine, error) {
	lines := make([]cartLine, 0, len(items))
	pos := make(map[uuid.UUID]int, len(items))
	for i, it := range items {
		if it.DailyMenuID == uuid.Nil {
			return nil, fmt.Errorf("%w: items[%d].daily_menu_id required", ErrValidation, i)
		}
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: items[%d].quantity must be > 0", ErrValidation, i)
		}
		if it.Quantity > maxQty {
			return nil, fmt.Errorf("%w: items[%d].quantity must be at most %d", ErrValidation, i, maxQty)
		}
		if j, ok := pos[it.DailyMenuID]; ok {
			if it.Quantity > maxQty-lines[j].Quantity {
				return nil, fmt.Errorf("%w: items[%d] brings daily_menu_id %s above %d", ErrValidation, i, it.DailyMenuID, maxQty)
			}
			lines[j].Quantity += it.Quantity
			continue
		}
		pos[it.DailyMenuID] = len(lines)
		lines = append(lines, cartLine{DailyMenuID: it.DailyMenuID, Quantity: it.Quantity})
	}
	return lines, nil
}

func checkLine(line cartLine, menu models.DailyMenu, found bool, date string) error {
	unavailable := func(reason string) error {
		return &ItemUnavailableError{DailyMenuID: line.DailyMenuID, Reason: reason}
	}
	switch {
	case !found:
		return unavailable(ReasonNotFound)
	case menu.MenuDate != date:
		return unavailable(ReasonWrongDate)
	case !menu.IsAvailable:
		return unavailable(ReasonNotAvailable)
	case menu.FoodItem == nil || !menu.FoodItem.IsActive:
		return unavailable(ReasonInactiveFood)
	case menu.RemainingQuantity != nil && *menu.RemainingQuantity < line.Quantity:
		return unavailable(ReasonSoldOut)
	}
	return nil
}

func (svc *OrderService) maxNotes() int {
	if svc.MaxNotesLength > 0 {
		return svc.MaxNotesLength
	}
	return config.DefaultMaxNotesLength
}

func (svc *OrderService) maxLine() int {
	if svc.MaxLineQuantity > 0 {
		return svc.MaxLineQuantity
	}
	return config.DefaultMaxLineQuantity
}

// lineSubtotal is price*qty, or ErrValidation when it does not fit in an int64.
func lineSubtotal(price int64, qty int) (int64, error) {
	if price < 0 || (qty > 0 && price > math.MaxInt64/int64(qty)) {
		return 0, fmt.Errorf("%w: line amount out of range", ErrValidation)
	}
	return price * int64(qty), nil
}

// SubmitOrder validates a parent's cart and persists the order, its lines and
// the inventory decrement in one transaction.
func (svc *OrderService) SubmitOrder(ctx context.Context, parentID uuid.UUID, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.submit", "parent_id", parentID)

	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	lines, err := mergeCart(req.Items, svc.maxLine())
	if err != nil {
		return nil, err
	}
	if parentID == uuid.Nil {
		return nil, fmt.Errorf("%w: parent id required", ErrValidation)
	}
	if req.ChildID == uuid.Nil {
		return nil, fmt.Errorf("%w: child_id required", ErrValidation)
	}
	notes := strings.TrimSpace(req.Notes)
	if n := utf8.RuneCountInString(notes); n > svc.maxNotes() {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", ErrValidation, svc.maxNotes())
	}

	now := svc.Clock.Now()
	deliveryDate := req.DeliveryDate
	if deliveryDate == "" {
		deliveryDate = dateOf(now.AddDate(0, 0, 1))
	} else if _, err := parseDate(deliveryDate); err != nil {
		return nil, err
	}

	child, err := svc.Repo.GetChild(ctx, req.ChildID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, persistenceErr("get child", err)
	}
	if child == nil || child.ParentID != parentID || !child.IsActive {
		return nil, ErrUnauthorizedChild
	}

	policy, err := resolvePolicy(ctx, svc.Repo, deliveryDate)
	if err != nil {
		return nil, err
	}
	if err := policy.CheckWindow(now, deliveryDate); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(lines))
	for i, line := range lines {
		ids[i] = line.DailyMenuID
	}
	menus, err := svc.Repo.GetDailyMenusByIDs(ctx, ids)
	if err != nil {
		return nil, persistenceErr("load menu entries", err)
	}
	for _, line := range lines {
		m, ok := menus[line.DailyMenuID]
		if err := checkLine(line, m, ok, deliveryDate); err != nil {
			return nil, err
		}
	}

	if policy.MaxOrdersPerDay != nil {
		if err := checkDailyLimit(ctx, svc.Repo, deliveryDate, *policy.MaxOrdersPerDay); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		ParentID:      parentID,
		ChildID:       child.ID,
		OrderDate:     dateOf(now),
		DeliveryDate:  deliveryDate,
		Status:        models.OrderStatusPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         notes,
		Items:         make([]models.OrderItem, 0, len(lines)),
	}
	for _, line := range lines {
		price := menus[line.DailyMenuID].Price
		subtotal, err := lineSubtotal(price, line.Quantity)
		if err != nil {
			return nil, err
		}
		if order.TotalAmount > math.MaxInt64-subtotal {
			return nil, fmt.Errorf("%w: order total out of range", ErrValidation)
		}
		order.Items = append(order.Items, models.OrderItem{
			DailyMenuID: line.DailyMenuID,
			Quantity:    line.Quantity,
			UnitPrice:   price,
			Subtotal:    subtotal,
		})
		order.TotalAmount += subtotal
	}

	// Decrement in id order so concurrent orders touching the same entries lock rows in the same order.
	byID := append([]cartLine(nil), lines...)
	sort.Slice(byID, func(i, j int) bool {
		return byID[i].DailyMenuID.String() < byID[j].DailyMenuID.String()
	})

	err = svc.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if policy.ScheduleID != nil {
			if err := tx.LockSchedule(ctx, *policy.ScheduleID); err != nil {
				return persistenceErr("lock schedule", err)
			}
		}
		if policy.MaxOrdersPerDay != nil {
			if err := checkDailyLimit(ctx, tx, deliveryDate, *policy.MaxOrdersPerDay); err != nil {
				return err
			}
		}
		for _, line := range byID {
			ok, err := tx.DecrementRemaining(ctx, line.DailyMenuID, line.Quantity)
			if err != nil {
				return persistenceErr("decrement remaining quantity", err)
			}
			if !ok {
				return &ItemUnavailableError{DailyMenuID: line.DailyMenuID, Reason: ReasonSoldOut}
			}
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return persistenceErr("create order", err)
		}
		return nil
	})
	if err != nil {
		l.Warn("order_submit_failed", "child_id", child.ID, "delivery_date", deliveryDate, "error", err)
		return nil, err
	}

	order.Child = child
	l.Info("order_submitted", "order_id", order.ID, "delivery_date", deliveryDate, "total_amount", order.TotalAmount)
	svc.publish(ctx, orderEvent(events.TypeOrderCreated, order, "", now))
	return order, nil
}

func checkDailyLimit(ctx context.Context, r *repo.GormRepo, date string, limit int) error {
	n, err := r.CountActiveOrders(ctx, date)
	if err != nil {
		return persistenceErr("count orders", err)
	}
	if n >= int64(limit) {
		return fmt.Errorf("%w: %d orders already placed for %s", ErrDailyLimitReached, n, date)
	}
	return nil
}

func orderEvent(typ string, o *models.Order, previous models.OrderStatus, at time.Time) events.OrderEvent {
	ev := events.OrderEvent{
		Type:           typ,
		OrderID:        o.ID.String(),
		ParentID:       o.ParentID.String(),
		ChildID:        o.ChildID.String(),
		DeliveryDate:   o.DeliveryDate,
		Status:         string(o.Status),
		PreviousStatus: string(previous),
		TotalAmount:    o.TotalAmount,
		OccurredAt:     at.UTC(),
	}
	for _, it := range o.Items {
		ev.Lines = append(ev.Lines, events.OrderLine{
			DailyMenuID: it.DailyMenuID.String(),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return ev
}

// publish is best effort: the order is already committed.
func (svc *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if svc.Events == nil {
		return
	}
	if err := svc.Events.PublishEvent(ctx, ev.OrderID, ev); err != nil {
		logging.FromContext(ctx).Warn("order_event_publish_failed", "svc", "order", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
