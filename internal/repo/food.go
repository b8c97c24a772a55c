package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

func (r *GormRepo) CreateFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormRepo) GetFoodItem(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) SaveFoodItem(ctx context.Context, item *models.FoodItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *GormRepo) ListFoodItems(ctx context.Context, activeOnly bool) ([]models.FoodItem, error) {
	q := r.DB.WithContext(ctx).Model(&models.FoodItem{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}

	var items []models.FoodItem
	if err := q.Order("category ASC, name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetFoodItemsByIDs returns the items in the order of ids; unknown ids are skipped.
func (r *GormRepo) GetFoodItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.FoodItem, error) {
	if len(ids) == 0 {
		return []models.FoodItem{}, nil
	}

	var found []models.FoodItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.FoodItem, len(found))
	for _, f := range found {
		byID[f.ID] = f
	}
	items := make([]models.FoodItem, 0, len(found))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			items = append(items, f)
		}
	}
	return items, nil
}

func (r *GormRepo) SetFoodItemActive(ctx context.Context, id uuid.UUID, active bool) error {
	res := r.DB.WithContext(ctx).Model(&models.FoodItem{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchFoodItems is the database fallback used when no search index is configured.
func (r *GormRepo) SearchFoodItems(ctx context.Context, q string, offset, limit int) (int64, []models.FoodItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	where := r.DB.WithContext(ctx).Model(&models.FoodItem{}).
		Where("is_active = ?", true).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)

	var total int64
	if err := where.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.FoodItem, 0, limit)
	if err := where.Session(&gorm.Session{}).Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
