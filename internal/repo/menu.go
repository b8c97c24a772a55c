package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

func (r *GormRepo) CreateDailyMenu(ctx context.Context, menu *models.DailyMenu) error {
	return r.DB.WithContext(ctx).Omit("FoodItem").Create(menu).Error
}

func (r *GormRepo) CreateDailyMenus(ctx context.Context, menus []models.DailyMenu) error {
	if len(menus) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit("FoodItem").CreateInBatches(menus, 100).Error
}

func (r *GormRepo) GetDailyMenu(ctx context.Context, id uuid.UUID) (*models.DailyMenu, error) {
	var menu models.DailyMenu
	if err := r.DB.WithContext(ctx).Preload("FoodItem").Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, err
	}
	return &menu, nil
}

// GetDailyMenusByIDs loads the entries with their food items, keyed by id.
func (r *GormRepo) GetDailyMenusByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.DailyMenu, error) {
	out := make(map[uuid.UUID]models.DailyMenu, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var menus []models.DailyMenu
	if err := r.DB.WithContext(ctx).Preload("FoodItem").Where("id IN ?", ids).Find(&menus).Error; err != nil {
		return nil, err
	}
	for _, m := range menus {
		out[m.ID] = m
	}
	return out, nil
}

func (r *GormRepo) ListDailyMenus(ctx context.Context, date string, availableOnly bool) ([]models.DailyMenu, error) {
	q := r.DB.WithContext(ctx).
		Preload("FoodItem").
		Joins("JOIN food_items ON food_items.id = daily_menus.food_item_id").
		Where("daily_menus.menu_date = ?", date)
	if availableOnly {
		q = q.Where("daily_menus.is_available = ? AND food_items.is_active = ?", true, true)
	}

	var menus []models.DailyMenu
	if err := q.Order("food_items.category ASC, food_items.name ASC").Find(&menus).Error; err != nil {
		return nil, err
	}
	return menus, nil
}

func (r *GormRepo) UpdateDailyMenu(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.DB.WithContext(ctx).Model(&models.DailyMenu{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemainingWithinMax is the remaining_quantity assignment that goes with a new
// max_quantity: untracked or larger counters become limit, smaller ones are kept.
// It is evaluated against the row at write time.
func RemainingWithinMax(limit int) clause.Expr {
	return gorm.Expr("CASE WHEN remaining_quantity IS NULL OR remaining_quantity > ? THEN ? ELSE remaining_quantity END", limit, limit)
}

// DecrementRemaining atomically takes qty units from an available entry.
// It reports false when the entry is unavailable or has fewer than qty units left.
// Entries with untracked capacity are accepted without change to their counter.
func (r *GormRepo) DecrementRemaining(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.DailyMenu{}).
		Where("id = ? AND is_available = ?", id, true).
		Where("remaining_quantity IS NULL OR remaining_quantity >= ?", qty).
		Updates(map[string]any{
			"remaining_quantity": gorm.Expr("remaining_quantity - ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementRemaining returns qty units to a tracked entry, capped at its maximum.
func (r *GormRepo) IncrementRemaining(ctx context.Context, id uuid.UUID, qty int) error {
	return r.DB.WithContext(ctx).Model(&models.DailyMenu{}).
		Where("id = ? AND remaining_quantity IS NOT NULL", id).
		Update("remaining_quantity", gorm.Expr(
			"CASE WHEN max_quantity IS NOT NULL AND remaining_quantity + ? > max_quantity THEN max_quantity ELSE remaining_quantity + ? END",
			qty, qty,
		)).Error
}

// ExistingMenuKeys reports which (date, food item) pairs already have an entry.
func (r *GormRepo) ExistingMenuKeys(ctx context.Context, dates []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(dates) == 0 {
		return out, nil
	}

	var rows []struct {
		MenuDate   string
		FoodItemID uuid.UUID
	}
	if err := r.DB.WithContext(ctx).Model(&models.DailyMenu{}).
		Select("menu_date, food_item_id").
		Where("menu_date IN ?", dates).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[MenuKey(row.MenuDate, row.FoodItemID)] = true
	}
	return out, nil
}

func MenuKey(date string, foodItemID uuid.UUID) string {
	return date + "/" + foodItemID.String()
}
