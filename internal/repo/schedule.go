package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/school_canteen/internal/models"
)

// ScheduleForDate returns the override for date, falling back to the most
// recently updated global schedule. It returns nil when neither exists.
func (r *GormRepo) ScheduleForDate(ctx context.Context, date string) (*models.OrderSchedule, error) {
	db := r.DB.WithContext(ctx)

	var s models.OrderSchedule
	err := db.Where("schedule_date = ?", date).First(&s).Error
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = db.Where("schedule_date IS NULL").
		Order("updated_at DESC, id ASC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockSchedule takes a row lock on the schedule so that concurrent
// submissions against the same policy run one after another.
// Databases without row locks serialize writers on their own.
func (r *GormRepo) LockSchedule(ctx context.Context, id uuid.UUID) error {
	db := r.DB.WithContext(ctx)
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	var s models.OrderSchedule
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&s).Error
}

func (r *GormRepo) ListSchedules(ctx context.Context) ([]models.OrderSchedule, error) {
	var out []models.OrderSchedule
	if err := r.DB.WithContext(ctx).Order("schedule_date ASC, updated_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetSchedule(ctx context.Context, id uuid.UUID) (*models.OrderSchedule, error) {
	var s models.OrderSchedule
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) CreateSchedule(ctx context.Context, s *models.OrderSchedule) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SaveSchedule(ctx context.Context, s *models.OrderSchedule) error {
	return r.DB.WithContext(ctx).Save(s).Error
}

func (r *GormRepo) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
