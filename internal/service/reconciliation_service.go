package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReconciliationService re-runs adjudication for a claim against its latest
// survey. It is invoked inside the caller's transaction whenever either side
// of the comparison changes: a survey is submitted or replaced, or the
// contractor replaces a submitted claim.
type ReconciliationService interface {
	Reconcile(ctx context.Context, claimID uuid.UUID) (*ReconciliationResult, error)
}

type reconciliationService struct {
	claims     repository.ClaimRepository
	surveys    repository.SurveyorClaimRepository
	thresholds repository.ThresholdRepository
}

func NewReconciliationService(
	claims repository.ClaimRepository,
	surveys repository.SurveyorClaimRepository,
	thresholds repository.ThresholdRepository,
) ReconciliationService {
	return &reconciliationService{claims: claims, surveys: surveys, thresholds: thresholds}
}

// Reconcile compares the latest survey's total against the contractor volume
// of the blocks that survey measured, adjudicates against the active
// threshold, and persists the outcome on the claim. The survey it reads is
// marked validated.
// When the claim has never been surveyed it returns nil and leaves the claim
// untouched.
func (s *reconciliationService) Reconcile(ctx context.Context, claimID uuid.UUID) (*ReconciliationResult, error) {
	claim, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reconcile: claim %s not found", claimID)
		}
		return nil, fmt.Errorf("reconcile: fetch claim: %w", err)
	}

	survey, err := s.surveys.LatestForClaim(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("reconcile: fetch latest survey: %w", err)
	}
	if survey == nil {
		return nil, nil
	}

	threshold, err := s.thresholds.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile: fetch active threshold: %w", err)
	}

	result := Adjudicate(survey.TotalBcm, SurveyedContractorTotal(*survey), threshold)

	if err := s.claims.UpdateStatus(ctx, claim.ID, result.Status); err != nil {
		return nil, fmt.Errorf("reconcile: update claim status: %w", err)
	}
	if survey.Status != model.SurveyorClaimStatusValidated {
		if err := s.surveys.UpdateTotals(ctx, survey.ID, survey.TotalBcm, survey.TotalAmount, model.SurveyorClaimStatusValidated); err != nil {
			return nil, fmt.Errorf("reconcile: validate survey: %w", err)
		}
	}
	return &result, nil
}
