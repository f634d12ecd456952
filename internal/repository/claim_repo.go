package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ClaimRepository owns contractor claims and their blocks. Ownership-scoped
// lookups take the contractor id so a foreign claim behaves as missing.
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	Save(ctx context.Context, claim *model.Claim) error
	Delete(ctx context.Context, claim *model.Claim) error
	GetOwned(ctx context.Context, id, contractorID uuid.UUID) (*model.Claim, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Claim, error)
	ListByContractor(ctx context.Context, contractorID uuid.UUID, offset, limit int) ([]model.Claim, int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Claim, int64, error)
	ListSubmitted(ctx context.Context, offset, limit int) ([]model.Claim, int64, error)
	CountCreatedInYear(ctx context.Context, year int) (int64, error)
	LockYearSequence(ctx context.Context, year int) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateTotals(ctx context.Context, id uuid.UUID, totalBcm, totalAmount decimal.Decimal) error

	CreateBlock(ctx context.Context, block *model.ClaimBlock) error
	DeleteBlocks(ctx context.Context, claimID uuid.UUID) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(ctx context.Context, claim *model.Claim) error {
	return GetDB(ctx, r.db).Create(claim).Error
}

func (r *claimRepository) Save(ctx context.Context, claim *model.Claim) error {
	return GetDB(ctx, r.db).Save(claim).Error
}

func (r *claimRepository) Delete(ctx context.Context, claim *model.Claim) error {
	return GetDB(ctx, r.db).Delete(claim).Error
}

func (r *claimRepository) GetOwned(ctx context.Context, id, contractorID uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	err := GetDB(ctx, r.db).
		Preload("Site").
		Preload("Pit").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Preload("Blocks.SurveyorBlock").
		First(&claim, "id = ? AND contractor_id = ?", id, contractorID).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Claim, error) {
	var claim model.Claim
	err := GetDB(ctx, r.db).
		Preload("Site").
		Preload("Pit").
		Preload("Contractor").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Preload("Blocks.SurveyorBlock").
		First(&claim, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) ListByContractor(ctx context.Context, contractorID uuid.UUID, offset, limit int) ([]model.Claim, int64, error) {
	db := GetDB(ctx, r.db)
	var total int64
	if err := db.Model(&model.Claim{}).Where("contractor_id = ?", contractorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []model.Claim
	err := db.
		Preload("Site").
		Preload("Pit").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Where("contractor_id = ?", contractorID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&claims).Error
	return claims, total, err
}

func (r *claimRepository) ListAll(ctx context.Context, offset, limit int) ([]model.Claim, int64, error) {
	return r.list(ctx, nil, offset, limit)
}

// ListSubmitted lists claims that left draft, the population surveyors and
// reviewers work from.
func (r *claimRepository) ListSubmitted(ctx context.Context, offset, limit int) ([]model.Claim, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status != ?", model.ClaimStatusDraft)
	}, offset, limit)
}

func (r *claimRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]model.Claim, int64, error) {
	db := GetDB(ctx, r.db)
	counter := db.Model(&model.Claim{})
	if scope != nil {
		counter = scope(counter)
	}
	var total int64
	if err := counter.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := db.
		Preload("Site").
		Preload("Pit").
		Preload("Contractor").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Preload("Blocks.SurveyorBlock")
	if scope != nil {
		query = scope(query)
	}
	var claims []model.Claim
	err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&claims).Error
	return claims, total, err
}

func (r *claimRepository) CountCreatedInYear(ctx context.Context, year int) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("EXTRACT(YEAR FROM created_at) = ?", year).
		Count(&count).Error
	return count, err
}

// LockYearSequence serializes claim number generation for a year. The lock
// is held until the surrounding transaction commits, so concurrent submits
// cannot observe the same yearly count.
func (r *claimRepository) LockYearSequence(ctx context.Context, year int) error {
	return GetDB(ctx, r.db).Exec("SELECT pg_advisory_xact_lock(?)", int64(year)).Error
}

func (r *claimRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *claimRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totalBcm, totalAmount decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Claim{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_bcm":    totalBcm,
			"total_amount": totalAmount,
		}).Error
}

func (r *claimRepository) CreateBlock(ctx context.Context, block *model.ClaimBlock) error {
	return GetDB(ctx, r.db).Create(block).Error
}

func (r *claimRepository) DeleteBlocks(ctx context.Context, claimID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("claim_id = ?", claimID).Delete(&model.ClaimBlock{}).Error
}
