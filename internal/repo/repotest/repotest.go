// Package repotest opens throwaway sqlite databases and seeds fixtures for tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/school_canteen/internal/models"
	"github.com/Skotchmaster/school_canteen/internal/repo"
	"github.com/Skotchmaster/school_canteen/pkg/db"
)

func New(t *testing.T) *repo.GormRepo {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverSQLite, filepath.Join(t.TempDir(), "canteen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(context.Background()))
	return r
}

func IntPtr(v int) *int { return &v }

func StrPtr(v string) *string { return &v }

func Food(t *testing.T, r *repo.GormRepo, name string, price int64) *models.FoodItem {
	t.Helper()

	f := &models.FoodItem{
		Name:      name,
		Category:  models.CategoryFood,
		BasePrice: price,
		IsActive:  true,
	}
	require.NoError(t, r.CreateFoodItem(context.Background(), f))
	return f
}

// Menu offers food on date; a nil qty leaves capacity untracked.
func Menu(t *testing.T, r *repo.GormRepo, food *models.FoodItem, date string, price int64, qty *int) *models.DailyMenu {
	t.Helper()

	m := &models.DailyMenu{
		MenuDate:          date,
		FoodItemID:        food.ID,
		Price:             price,
		IsAvailable:       true,
		MaxQuantity:       qty,
		RemainingQuantity: qty,
	}
	if qty != nil {
		limit := *qty
		m.MaxQuantity = &limit
	}
	require.NoError(t, r.CreateDailyMenu(context.Background(), m))
	return m
}

func Child(t *testing.T, r *repo.GormRepo, parentID uuid.UUID, name string) *models.Child {
	t.Helper()

	c := &models.Child{ParentID: parentID, Name: name, ClassName: "3A", IsActive: true}
	require.NoError(t, r.CreateChild(context.Background(), c))
	return c
}

func RemainingQuantity(t *testing.T, r *repo.GormRepo, id uuid.UUID) *int {
	t.Helper()

	m, err := r.GetDailyMenu(context.Background(), id)
	require.NoError(t, err)
	return m.RemainingQuantity
}
