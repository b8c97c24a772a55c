package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
)

type OrderQuery struct {
	Status       string
	DeliveryDate string
	ChildName    string
	Offset       int
	Limit        int
}

func (svc *OrderService) ListParentOrders(ctx context.Context, parentID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	total, orders, err := svc.Repo.ListOrders(ctx, repo.OrderFilter{ParentID: &parentID, Offset: offset, Limit: limit})
	if err != nil {
		return 0, nil, persistenceErr("list orders", err)
	}
	return total, orders, nil
}

// GetParentOrder hides orders of other parents behind ErrNotFound.
func (svc *OrderService) GetParentOrder(ctx context.Context, parentID, id uuid.UUID) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	if order.ParentID != parentID {
		return nil, fmt.Errorf("get order: %w", ErrNotFound)
	}
	return order, nil
}

// OrderDetail is an order as staff see it, with the statuses it can move to next.
type OrderDetail struct {
	Order        *models.Order        `json:"order"`
	NextStatuses []models.OrderStatus `json:"next_statuses"`
}

func (svc *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, storeErr("get order", err)
	}
	return &OrderDetail{Order: order, NextStatuses: NextStatuses(order.Status)}, nil
}

func (svc *OrderService) ListOrders(ctx context.Context, q OrderQuery) (int64, []models.Order, error) {
	f := repo.OrderFilter{ChildName: q.ChildName, Offset: q.Offset, Limit: q.Limit}
	if q.Status != "" {
		st := models.OrderStatus(q.Status)
		if !st.Valid() {
			return 0, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, q.Status)
		}
		f.Status = &st
	}
	if q.DeliveryDate != "" {
		if _, err := parseDate(q.DeliveryDate); err != nil {
			return 0, nil, err
		}
		f.DeliveryDate = q.DeliveryDate
	}

	total, orders, err := svc.Repo.ListOrders(ctx, f)
	if err != nil {
		return 0, nil, persistenceErr("list orders", err)
	}
	return total, orders, nil
}

type RecapLine struct {
	FoodName string `json:"food_name"`
	Quantity int    `json:"quantity"`
	Subtotal int64  `json:"subtotal"`
}

type ChildRecap struct {
	ChildID     uuid.UUID   `json:"child_id"`
	ChildName   string      `json:"child_name"`
	ClassName   string      `json:"class"`
	OrderIDs    []uuid.UUID `json:"order_ids"`
	Items       []RecapLine `json:"items"`
	TotalAmount int64       `json:"total_amount"`
}

type FoodTotal struct {
	FoodItemID uuid.UUID `json:"food_item_id"`
	FoodName   string    `json:"food_name"`
	Quantity   int       `json:"quantity"`
	Amount     int64     `json:"amount"`
}

type Recap struct {
	DeliveryDate string       `json:"delivery_date"`
	TotalOrders  int          `json:"total_orders"`
	TotalAmount  int64        `json:"total_amount"`
	Children     []ChildRecap `json:"children"`
	Foods        []FoodTotal  `json:"foods"`
}

// Recap groups the non-cancelled orders for a delivery date by child and totals
// the quantity of every food item the kitchen has to prepare.
func (svc *OrderService) Recap(ctx context.Context, date string) (*Recap, error) {
	if _, err := parseDate(date); err != nil {
		return nil, err
	}

	_, orders, err := svc.Repo.ListOrders(ctx, repo.OrderFilter{DeliveryDate: date})
	if err != nil {
		return nil, persistenceErr("list orders", err)
	}

	out := &Recap{DeliveryDate: date, Children: []ChildRecap{}, Foods: []FoodTotal{}}
	childPos := map[uuid.UUID]int{}
	foodPos := map[uuid.UUID]int{}

	// ListOrders is newest first; the recap reads in order of placement.
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		out.TotalOrders++
		out.TotalAmount += o.TotalAmount

		ci, ok := childPos[o.ChildID]
		if !ok {
			cr := ChildRecap{ChildID: o.ChildID, ChildName: "Unknown", ClassName: "Unknown"}
			if o.Child != nil {
				cr.ChildName, cr.ClassName = o.Child.Name, o.Child.ClassName
			}
			ci = len(out.Children)
			childPos[o.ChildID] = ci
			out.Children = append(out.Children, cr)
		}
		cr := &out.Children[ci]
		cr.OrderIDs = append(cr.OrderIDs, o.ID)
		cr.TotalAmount += o.TotalAmount

		for _, it := range o.Items {
			name, foodID := "Unknown", uuid.Nil
			if it.DailyMenu != nil {
				foodID = it.DailyMenu.FoodItemID
				if it.DailyMenu.FoodItem != nil {
					name = it.DailyMenu.FoodItem.Name
				}
			}
			cr.Items = append(cr.Items, RecapLine{FoodName: name, Quantity: it.Quantity, Subtotal: it.Subtotal})

			fi, ok := foodPos[foodID]
			if !ok {
				fi = len(out.Foods)
				foodPos[foodID] = fi
				out.Foods = append(out.Foods, FoodTotal{FoodItemID: foodID, FoodName: name})
			}
			out.Foods[fi].Quantity += it.Quantity
			out.Foods[fi].Amount += it.Subtotal
		}
	}
	return out, nil
}

type Stats struct {
	ByStatus    map[models.OrderStatus]int64 `json:"by_status"`
	TotalOrders int64                        `json:"total_orders"`
	Revenue     int64                        `json:"revenue"`
}

// Stats counts orders per status and sums the revenue of non-cancelled orders.
// An empty date covers every delivery date.
func (svc *OrderService) Stats(ctx context.Context, date string) (*Stats, error) {
	if date != "" {
		if _, err := parseDate(date); err != nil {
			return nil, err
		}
	}

	counts, err := svc.Repo.CountOrdersByStatus(ctx, date)
	if err != nil {
		return nil, persistenceErr("count orders", err)
	}
	revenue, err := svc.Repo.SumRevenue(ctx, date)
	if err != nil {
		return nil, persistenceErr("sum revenue", err)
	}

	out := &Stats{ByStatus: make(map[models.OrderStatus]int64, len(models.OrderStatuses)), Revenue: revenue}
	for _, s := range models.OrderStatuses {
		out.ByStatus[s] = 0
	}
	for _, c := range counts {
		out.ByStatus[c.Status] = c.Count
		out.TotalOrders += c.Count
	}
	return out, nil
}
