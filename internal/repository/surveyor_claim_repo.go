package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SurveyorClaimRepository owns surveys and their per-block measurements.
// LatestForClaim implements the "latest survey wins" contract used by
// reconciliation reads and signature lookups.
type SurveyorClaimRepository interface {
	Create(ctx context.Context, sc *model.SurveyorClaim) error
	Save(ctx context.Context, sc *model.SurveyorClaim) error
	Delete(ctx context.Context, sc *model.SurveyorClaim) error
	GetOwned(ctx context.Context, id, surveyorID uuid.UUID) (*model.SurveyorClaim, error)
	GetWithBlocks(ctx context.Context, id uuid.UUID) (*model.SurveyorClaim, error)
	ListBySurveyor(ctx context.Context, surveyorID uuid.UUID, offset, limit int) ([]model.SurveyorClaim, int64, error)
	LatestForClaim(ctx context.Context, claimID uuid.UUID) (*model.SurveyorClaim, error)
	ListForApprovedClaims(ctx context.Context) ([]model.SurveyorClaim, error)
	UpdateTotals(ctx context.Context, id uuid.UUID, totalBcm, totalAmount decimal.Decimal, status string) error

	CreateBlock(ctx context.Context, block *model.SurveyorClaimBlock) error
	DeleteBlocks(ctx context.Context, surveyorClaimID uuid.UUID) error
}

type surveyorClaimRepository struct {
	db *gorm.DB
}

func NewSurveyorClaimRepository(db *gorm.DB) SurveyorClaimRepository {
	return &surveyorClaimRepository{db: db}
}

func (r *surveyorClaimRepository) Create(ctx context.Context, sc *model.SurveyorClaim) error {
	return GetDB(ctx, r.db).Create(sc).Error
}

func (r *surveyorClaimRepository) Save(ctx context.Context, sc *model.SurveyorClaim) error {
	return GetDB(ctx, r.db).Save(sc).Error
}

func (r *surveyorClaimRepository) Delete(ctx context.Context, sc *model.SurveyorClaim) error {
	return GetDB(ctx, r.db).Delete(sc).Error
}

func (r *surveyorClaimRepository) GetOwned(ctx context.Context, id, surveyorID uuid.UUID) (*model.SurveyorClaim, error) {
	var sc model.SurveyorClaim
	err := GetDB(ctx, r.db).
		Preload("Site").
		Preload("Pit").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Preload("Blocks.ClaimBlock").
		First(&sc, "id = ? AND surveyor_id = ?", id, surveyorID).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *surveyorClaimRepository) GetWithBlocks(ctx context.Context, id uuid.UUID) (*model.SurveyorClaim, error) {
	var sc model.SurveyorClaim
	err := GetDB(ctx, r.db).
		Preload("Blocks").
		Preload("Blocks.ClaimBlock").
		First(&sc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

func (r *surveyorClaimRepository) ListBySurveyor(ctx context.Context, surveyorID uuid.UUID, offset, limit int) ([]model.SurveyorClaim, int64, error) {
	db := GetDB(ctx, r.db)
	var total int64
	if err := db.Model(&model.SurveyorClaim{}).Where("surveyor_id = ?", surveyorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []model.SurveyorClaim
	err := db.
		Preload("Site").
		Preload("Pit").
		Preload("Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Blocks.Block").
		Preload("Blocks.ClaimBlock").
		Where("surveyor_id = ?", surveyorID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&claims).Error
	return claims, total, err
}

// LatestForClaim returns the most recent survey for a claim by creation time,
// or nil when the claim has never been surveyed.
func (r *surveyorClaimRepository) LatestForClaim(ctx context.Context, claimID uuid.UUID) (*model.SurveyorClaim, error) {
	var sc model.SurveyorClaim
	err := GetDB(ctx, r.db).
		Preload("Surveyor").
		Preload("Blocks").
		Preload("Blocks.ClaimBlock").
		Preload("Signatures").
		Preload("Signatures.User").
		Where("claim_id = ?", claimID).
		Order("created_at DESC").
		First(&sc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sc, nil
}

// ListForApprovedClaims returns surveys of claims that cleared adjudication,
// newest first, so callers can keep the latest survey per claim.
func (r *surveyorClaimRepository) ListForApprovedClaims(ctx context.Context) ([]model.SurveyorClaim, error) {
	var rows []model.SurveyorClaim
	err := GetDB(ctx, r.db).
		Joins("JOIN claims ON claims.id = surveyor_claims.claim_id").
		Where("claims.status IN ?", approvedStatuses).
		Preload("Claim").
		Preload("Signatures").
		Order("surveyor_claims.created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *surveyorClaimRepository) UpdateTotals(ctx context.Context, id uuid.UUID, totalBcm, totalAmount decimal.Decimal, status string) error {
	updates := map[string]interface{}{
		"total_bcm":    totalBcm,
		"total_amount": totalAmount,
	}
	if status != "" {
		updates["status"] = status
	}
	return GetDB(ctx, r.db).Model(&model.SurveyorClaim{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *surveyorClaimRepository) CreateBlock(ctx context.Context, block *model.SurveyorClaimBlock) error {
	return GetDB(ctx, r.db).Create(block).Error
}

func (r *surveyorClaimRepository) DeleteBlocks(ctx context.Context, surveyorClaimID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("surveyor_claim_id = ?", surveyorClaimID).Delete(&model.SurveyorClaimBlock{}).Error
}
