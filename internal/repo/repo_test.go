package repo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/internal/repo/repotest"
)

const date = "2030-03-04"

func TestDecrementRemaining(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	food := repotest.Food(t, r, "Nasi Goreng", 15000)
	menu := repotest.Menu(t, r, food, date, 15000, repotest.IntPtr(3))

	ok, err := r.DecrementRemaining(ctx, menu.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, *repotest.RemainingQuantity(t, r, menu.ID))

	ok, err = r.DecrementRemaining(ctx, menu.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, *repotest.RemainingQuantity(t, r, menu.ID))

	ok, err = r.DecrementRemaining(ctx, menu.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, *repotest.RemainingQuantity(t, r, menu.ID))
}

func TestDecrementRemaining_UntrackedAndUnavailable(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	food := repotest.Food(t, r, "Es Teh", 5000)
	untracked := repotest.Menu(t, r, food, date, 5000, nil)

	ok, err := r.DecrementRemaining(ctx, untracked.ID, 100)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Nil(t, repotest.RemainingQuantity(t, r, untracked.ID))

	require.NoError(t, r.UpdateDailyMenu(ctx, untracked.ID, map[string]any{"is_available": false}))
	ok, err = r.DecrementRemaining(ctx, untracked.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.DecrementRemaining(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrementRemaining_CapsAtMax(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	food := repotest.Food(t, r, "Soto", 12000)
	menu := repotest.Menu(t, r, food, date, 12000, repotest.IntPtr(5))

	_, err := r.DecrementRemaining(ctx, menu.ID, 2)
	require.NoError(t, err)
	require.NoError(t, r.IncrementRemaining(ctx, menu.ID, 10))
	assert.Equal(t, 5, *repotest.RemainingQuantity(t, r, menu.ID))
}

func TestTransaction_RollsBack(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	food := repotest.Food(t, r, "Bakso", 10000)
	menu := repotest.Menu(t, r, food, date, 10000, repotest.IntPtr(4))

	boom := errors.New("boom")
	err := r.Transaction(ctx, func(tx *repo.GormRepo) error {
		ok, err := tx.DecrementRemaining(ctx, menu.ID, 4)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 4, *repotest.RemainingQuantity(t, r, menu.ID))
}

func TestCreateOrderAndQueries(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	parent := uuid.New()
	child := repotest.Child(t, r, parent, "Budi Santoso")
	other := repotest.Child(t, r, uuid.New(), "Siti")
	food := repotest.Food(t, r, "Nasi Goreng", 15000)
	menu := repotest.Menu(t, r, food, date, 15000, nil)

	newOrder := func(c *models.Child, status models.OrderStatus, amount int64) *models.Order {
		o := &models.Order{
			ParentID:     c.ParentID,
			ChildID:      c.ID,
			OrderDate:    "2030-03-03",
			DeliveryDate: date,
			TotalAmount:  amount,
			Status:       status,
			Items: []models.OrderItem{
				{DailyMenuID: menu.ID, Quantity: 1, UnitPrice: amount, Subtotal: amount},
			},
		}
		require.NoError(t, r.CreateOrder(ctx, o))
		return o
	}

	first := newOrder(child, models.OrderStatusPending, 15000)
	newOrder(child, models.OrderStatusCancelled, 15000)
	newOrder(other, models.OrderStatusPaid, 30000)

	got, err := r.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].DailyMenu)
	require.NotNil(t, got.Items[0].DailyMenu.FoodItem)
	assert.Equal(t, "Nasi Goreng", got.Items[0].DailyMenu.FoodItem.Name)
	assert.Equal(t, "Budi Santoso", got.Child.Name)

	n, err := r.CountActiveOrders(ctx, date)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	total, list, err := r.ListOrders(ctx, repo.OrderFilter{ParentID: &parent, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	total, list, err = r.ListOrders(ctx, repo.OrderFilter{ChildName: "budi", Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)

	revenue, err := r.SumRevenue(ctx, date)
	require.NoError(t, err)
	assert.EqualValues(t, 45000, revenue)

	counts, err := r.CountOrdersByStatus(ctx, "")
	require.NoError(t, err)
	byStatus := map[models.OrderStatus]int64{}
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}
	assert.Equal(t, map[models.OrderStatus]int64{
		models.OrderStatusPending:   1,
		models.OrderStatusCancelled: 1,
		models.OrderStatusPaid:      1,
	}, byStatus)
}

func TestUpdateOrderStatus_CompareAndSwap(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	child := repotest.Child(t, r, uuid.New(), "Ani")
	o := &models.Order{
		ParentID:     child.ParentID,
		ChildID:      child.ID,
		OrderDate:    date,
		DeliveryDate: date,
		Status:       models.OrderStatusPending,
	}
	require.NoError(t, r.CreateOrder(ctx, o))

	ok, err := r.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusPaid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.UpdateOrderStatus(ctx, o.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScheduleForDate(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()

	s, err := r.ScheduleForDate(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, s)

	global := &models.OrderSchedule{MaxOrdersPerDay: repotest.IntPtr(100)}
	require.NoError(t, r.CreateSchedule(ctx, global))

	s, err = r.ScheduleForDate(ctx, date)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, global.ID, s.ID)

	override := &models.OrderSchedule{ScheduleDate: repotest.StrPtr(date), IsWeekendEnabled: true}
	require.NoError(t, r.CreateSchedule(ctx, override))

	s, err = r.ScheduleForDate(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, override.ID, s.ID)

	s, err = r.ScheduleForDate(ctx, "2030-03-05")
	require.NoError(t, err)
	assert.Equal(t, global.ID, s.ID)

	require.NoError(t, r.LockSchedule(ctx, global.ID))
	require.NoError(t, r.DeleteSchedule(ctx, override.ID))
	assert.ErrorIs(t, r.DeleteSchedule(ctx, override.ID), gorm.ErrRecordNotFound)
}

func TestExistingMenuKeysAndSearch(t *testing.T) {
	r := repotest.New(t)
	ctx := context.Background()
	goreng := repotest.Food(t, r, "Nasi Goreng", 15000)
	soto := repotest.Food(t, r, "Soto Ayam", 12000)
	repotest.Menu(t, r, goreng, date, 15000, nil)

	keys, err := r.ExistingMenuKeys(ctx, []string{date, "2030-03-05"})
	require.NoError(t, err)
	assert.True(t, keys[repo.MenuKey(date, goreng.ID)])
	assert.False(t, keys[repo.MenuKey(date, soto.ID)])

	total, items, err := r.SearchFoodItems(ctx, "SOTO", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, soto.ID, items[0].ID)

	require.NoError(t, r.SetFoodItemActive(ctx, soto.ID, false))
	total, _, err = r.SearchFoodItems(ctx, "soto", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	menus, err := r.ListDailyMenus(ctx, date, true)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Nasi Goreng", menus[0].FoodItem.Name)
}
