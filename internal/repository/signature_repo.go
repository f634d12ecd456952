package repository

import (
	"context"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SignatureRepository interface {
	Upsert(ctx context.Context, sig *model.ClaimSignature) error
	ListForSurveyorClaim(ctx context.Context, surveyorClaimID uuid.UUID) ([]model.ClaimSignature, error)
	Get(ctx context.Context, surveyorClaimID, userID uuid.UUID, role string) (*model.ClaimSignature, error)
}

type signatureRepository struct {
	db *gorm.DB
}

func NewSignatureRepository(db *gorm.DB) SignatureRepository {
	return &signatureRepository{db: db}
}

// Upsert replaces the signature image when the same user signs the same
// survey in the same role twice.
func (r *signatureRepository) Upsert(ctx context.Context, sig *model.ClaimSignature) error {
	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "claim_id"}, {Name: "user_id"}, {Name: "role"}},
		DoUpdates: clause.AssignmentColumns([]string{"signature", "updated_at"}),
	}).Create(sig).Error
}

func (r *signatureRepository) ListForSurveyorClaim(ctx context.Context, surveyorClaimID uuid.UUID) ([]model.ClaimSignature, error) {
	var sigs []model.ClaimSignature
	err := GetDB(ctx, r.db).
		Preload("User").
		Where("claim_id = ?", surveyorClaimID).
		Order("created_at ASC").
		Find(&sigs).Error
	return sigs, err
}

func (r *signatureRepository) Get(ctx context.Context, surveyorClaimID, userID uuid.UUID, role string) (*model.ClaimSignature, error) {
	var sig model.ClaimSignature
	err := GetDB(ctx, r.db).
		Preload("User").
		First(&sig, "claim_id = ? AND user_id = ? AND role = ?", surveyorClaimID, userID, role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sig, nil
}
