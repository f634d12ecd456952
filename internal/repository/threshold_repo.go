package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ThresholdRepository owns tolerance configuration rows. DeactivateOthers and
// the subsequent save must run inside one transaction so there is never a
// committed state with two active thresholds.
type ThresholdRepository interface {
	Create(ctx context.Context, t *model.Threshold) error
	Save(ctx context.Context, t *model.Threshold) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Threshold, error)
	CountByName(ctx context.Context, name string, excludeID uuid.UUID) (int64, error)
	List(ctx context.Context, offset, limit int) ([]model.Threshold, int64, error)
	GetActive(ctx context.Context) (*model.Threshold, error)
	DeactivateOthers(ctx context.Context, excludeID uuid.UUID) error
}

type thresholdRepository struct {
	db *gorm.DB
}

func NewThresholdRepository(db *gorm.DB) ThresholdRepository {
	return &thresholdRepository{db: db}
}

func (r *thresholdRepository) Create(ctx context.Context, t *model.Threshold) error {
	return GetDB(ctx, r.db).Create(t).Error
}

func (r *thresholdRepository) Save(ctx context.Context, t *model.Threshold) error {
	return GetDB(ctx, r.db).Save(t).Error
}

func (r *thresholdRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Threshold{}).Error
}

func (r *thresholdRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Threshold, error) {
	var t model.Threshold
	if err := GetDB(ctx, r.db).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *thresholdRepository) CountByName(ctx context.Context, name string, excludeID uuid.UUID) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.Threshold{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

func (r *thresholdRepository) List(ctx context.Context, offset, limit int) ([]model.Threshold, int64, error) {
	db := GetDB(ctx, r.db)
	var total int64
	if err := db.Model(&model.Threshold{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var thresholds []model.Threshold
	err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&thresholds).Error
	return thresholds, total, err
}

// GetActive returns the single active threshold, or nil when none is active.
func (r *thresholdRepository) GetActive(ctx context.Context) (*model.Threshold, error) {
	var t model.Threshold
	err := GetDB(ctx, r.db).First(&t, "active = ?", true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *thresholdRepository) DeactivateOthers(ctx context.Context, excludeID uuid.UUID) error {
	return GetDB(ctx, r.db).Model(&model.Threshold{}).
		Where("active = ? AND id != ?", true, excludeID).
		Update("active", false).Error
}
