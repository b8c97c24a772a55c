package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

func (r *GormRepo) CreateChild(ctx context.Context, child *models.Child) error {
	return r.DB.WithContext(ctx).Create(child).Error
}

func (r *GormRepo) GetChild(ctx context.Context, id uuid.UUID) (*models.Child, error) {
	var child models.Child
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&child).Error; err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *GormRepo) ListChildrenByParent(ctx context.Context, parentID uuid.UUID) ([]models.Child, error) {
	var children []models.Child
	err := r.DB.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("name ASC").
		Find(&children).Error
	if err != nil {
		return nil, err
	}
	return children, nil
}
