package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo/repotest"
	"github.com/Skotchmaster/school_canteen/internal/transport"
)

func TestRecapAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sibling := repotest.Child(t, f.repo, f.parent, "Citra")
	gudeg := repotest.Menu(t, f.repo, repotest.Food(t, f.repo, "Gudeg", 15000), tomorrow, 15000, nil)
	teh := repotest.Menu(t, f.repo, repotest.Food(t, f.repo, "Es Teh", 5000), tomorrow, 5000, nil)

	_, err := f.orders.SubmitOrder(ctx, f.parent, f.cart(line(gudeg, 1), line(teh, 2)))
	require.NoError(t, err)
	req := f.cart(line(gudeg, 2))
	req.ChildID = sibling.ID
	second, err := f.orders.SubmitOrder(ctx, f.parent, req)
	require.NoError(t, err)
	dropped, err := f.orders.SubmitOrder(ctx, f.parent, f.cart(line(teh, 1)))
	require.NoError(t, err)
	_, err = f.orders.CancelOrder(ctx, f.parent, dropped.ID)
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, second.ID, models.OrderStatusPaid)
	require.NoError(t, err)

	recap, err := f.orders.Recap(ctx, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, 2, recap.TotalOrders)
	assert.EqualValues(t, 55000, recap.TotalAmount)
	require.Len(t, recap.Children, 2)

	totals := map[string]int{}
	for _, food := range recap.Foods {
		totals[food.FoodName] = food.Quantity
	}
	assert.Equal(t, map[string]int{"Gudeg": 3, "Es Teh": 2}, totals)

	byChild := map[string]ChildRecap{}
	for _, c := range recap.Children {
		byChild[c.ChildName] = c
	}
	assert.EqualValues(t, 25000, byChild["Budi"].TotalAmount)
	assert.Len(t, byChild["Budi"].Items, 2)
	assert.EqualValues(t, 30000, byChild["Citra"].TotalAmount)
	assert.Equal(t, "3A", byChild["Citra"].ClassName)

	stats, err := f.orders.Stats(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalOrders)
	assert.EqualValues(t, 55000, stats.Revenue)
	assert.EqualValues(t, 1, stats.ByStatus[models.OrderStatusPending])
	assert.EqualValues(t, 1, stats.ByStatus[models.OrderStatusPaid])
	assert.EqualValues(t, 1, stats.ByStatus[models.OrderStatusCancelled])
	assert.EqualValues(t, 0, stats.ByStatus[models.OrderStatusReady])

	_, err = f.orders.Recap(ctx, "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrderQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	menu := repotest.Menu(t, f.repo, repotest.Food(t, f.repo, "Bakso", 10000), tomorrow, 10000, nil)

	order, err := f.orders.SubmitOrder(ctx, f.parent, f.cart(line(menu, 1)))
	require.NoError(t, err)

	total, own, err := f.orders.ListParentOrders(ctx, f.parent, 0, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, "Bakso", own[0].Items[0].DailyMenu.FoodItem.Name)

	total, _, err = f.orders.ListParentOrders(ctx, uuid.New(), 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)

	got, err := f.orders.GetParentOrder(ctx, f.parent, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
	_, err = f.orders.GetParentOrder(ctx, uuid.New(), order.ID)
	require.ErrorIs(t, err, ErrNotFound)

	total, _, err = f.orders.ListOrders(ctx, OrderQuery{Status: "pending", DeliveryDate: tomorrow, ChildName: "bud", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	total, _, err = f.orders.ListOrders(ctx, OrderQuery{Status: "paid", Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = f.orders.ListOrders(ctx, OrderQuery{Status: "lost"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestChildService(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	svc := &ChildService{Repo: r}
	parent := uuid.New()

	_, err := svc.CreateChild(ctx, parent, transport.CreateChildRequest{Name: "Dewi"})
	require.ErrorIs(t, err, ErrValidation)

	child, err := svc.CreateChild(ctx, parent, transport.CreateChildRequest{Name: " Dewi ", ClassName: "2B"})
	require.NoError(t, err)
	assert.Equal(t, "Dewi", child.Name)
	assert.True(t, child.IsActive)
	repotest.Child(t, r, uuid.New(), "Eko")

	children, err := svc.ListChildren(ctx, parent)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}
