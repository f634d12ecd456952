package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/internal/storage"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type DecideClaimRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

type ClaimComparisonResponse struct {
	Claim           ClaimResponse         `json:"claim"`
	SurveyorTotal   *string               `json:"surveyor_total"`
	Deviation       *string               `json:"deviation"`
	WithinThreshold *bool                 `json:"within_threshold"`
	ThresholdLimit  *string               `json:"threshold_limit"`
	Blocks          []BlockComparison     `json:"blocks,omitempty"`
	LatestSurvey    *SurveyorClaimSummary `json:"latest_survey,omitempty"`
}

type SurveyorClaimSummary struct {
	ID           string `json:"id"`
	ClaimNumber  string `json:"claim_number"`
	SurveyorName string `json:"surveyor_name,omitempty"`
	Status       string `json:"status"`
	TotalBcm     string `json:"total_bcm"`
	SubmittedAt  string `json:"submitted_at"`
}

// ClaimStatusEvent is pushed to connected dashboards when a review decision
// or adjudication changes a claim's status.
type ClaimStatusEvent struct {
	ClaimID     string `json:"claim_id"`
	ClaimNumber string `json:"claim_number"`
	Status      string `json:"status"`
	Stage       string `json:"stage"`
	DecidedBy   string `json:"decided_by,omitempty"`
}

// EventPublisher fans status changes out to live subscribers. Publishing is
// best-effort and never fails the decision.
type EventPublisher interface {
	PublishClaimStatus(event ClaimStatusEvent)
}

// --- Interface ---

// ReviewService backs the managerial and finance review screens: side by
// side totals, per-block deviations, and the override decision itself.
type ReviewService interface {
	List(ctx context.Context, offset, limit int) ([]ClaimComparisonResponse, int64, error)
	Get(ctx context.Context, claimID string) (ClaimComparisonResponse, error)
	Decide(ctx context.Context, claimID, stage string, reviewerID uuid.UUID, req DecideClaimRequest) (ClaimComparisonResponse, error)
}

type reviewService struct {
	claims     repository.ClaimRepository
	surveys    repository.SurveyorClaimRepository
	thresholds repository.ThresholdRepository
	users      repository.UserRepository
	events     EventPublisher
	store      storage.BlobStore
	tx         repository.TransactionManager
}

func NewReviewService(
	claims repository.ClaimRepository,
	surveys repository.SurveyorClaimRepository,
	thresholds repository.ThresholdRepository,
	users repository.UserRepository,
	events EventPublisher,
	store storage.BlobStore,
	tx repository.TransactionManager,
) ReviewService {
	return &reviewService{
		claims:     claims,
		surveys:    surveys,
		thresholds: thresholds,
		users:      users,
		events:     events,
		store:      store,
		tx:         tx,
	}
}

// --- Implementation ---

func (s *reviewService) List(ctx context.Context, offset, limit int) ([]ClaimComparisonResponse, int64, error) {
	claims, total, err := s.claims.ListSubmitted(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	threshold, err := s.thresholds.GetActive(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch active threshold: %w", err)
	}

	res := make([]ClaimComparisonResponse, 0, len(claims))
	for _, c := range claims {
		cmp, err := s.buildComparison(ctx, c, threshold, false)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, cmp)
	}
	return res, total, nil
}

func (s *reviewService) Get(ctx context.Context, claimID string) (ClaimComparisonResponse, error) {
	id, err := uuid.Parse(claimID)
	if err != nil {
		return ClaimComparisonResponse{}, apperror.NewValidation("invalid claim id")
	}
	claim, err := s.claims.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClaimComparisonResponse{}, apperror.NewNotFound("claim")
		}
		return ClaimComparisonResponse{}, fmt.Errorf("fetch claim: %w", err)
	}
	threshold, err := s.thresholds.GetActive(ctx)
	if err != nil {
		return ClaimComparisonResponse{}, fmt.Errorf("fetch active threshold: %w", err)
	}
	return s.buildComparison(ctx, *claim, threshold, true)
}

// Decide applies a managerial or finance override. The decision value must
// belong to the stage; the claim's current status is not a gate, so a
// reviewer can reverse an earlier verdict in either direction.
func (s *reviewService) Decide(ctx context.Context, claimID, stage string, reviewerID uuid.UUID, req DecideClaimRequest) (ClaimComparisonResponse, error) {
	id, err := uuid.Parse(claimID)
	if err != nil {
		return ClaimComparisonResponse{}, apperror.NewValidation("invalid claim id")
	}
	if !ValidDecision(stage, req.Status) {
		return ClaimComparisonResponse{}, apperror.NewFieldValidation("invalid decision for review stage",
			map[string]string{"status": fmt.Sprintf("not a %s decision", stage)})
	}

	var claim *model.Claim
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err = s.claims.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("claim")
			}
			return fmt.Errorf("fetch claim: %w", err)
		}
		if claim.Status == model.ClaimStatusDraft || claim.Status == model.ClaimStatusSubmitted {
			return apperror.NewConflict("claim has not been adjudicated yet")
		}
		if err := s.claims.UpdateStatus(txCtx, claim.ID, req.Status); err != nil {
			return fmt.Errorf("update claim status: %w", err)
		}
		claim.Status = req.Status
		return nil
	})
	if err != nil {
		return ClaimComparisonResponse{}, err
	}

	if s.events != nil {
		event := ClaimStatusEvent{
			ClaimID:     claim.ID.String(),
			ClaimNumber: claim.ClaimNumber,
			Status:      claim.Status,
			Stage:       stage,
		}
		if reviewer, err := s.users.GetByID(ctx, reviewerID); err == nil {
			event.DecidedBy = reviewer.Name
		}
		s.events.PublishClaimStatus(event)
	}

	return s.Get(ctx, claimID)
}

// --- Helpers ---

func (s *reviewService) buildComparison(ctx context.Context, claim model.Claim, threshold *model.Threshold, withBlocks bool) (ClaimComparisonResponse, error) {
	res := ClaimComparisonResponse{Claim: mapClaimResponse(claim, s.store)}
	if threshold != nil {
		limit := threshold.LimitValue.StringFixed(2)
		res.ThresholdLimit = &limit
	}

	survey, err := s.surveys.LatestForClaim(ctx, claim.ID)
	if err != nil {
		return ClaimComparisonResponse{}, fmt.Errorf("fetch latest survey: %w", err)
	}
	if survey == nil {
		return res, nil
	}

	total := survey.TotalBcm.StringFixed(2)
	deviation := survey.TotalBcm.Sub(SurveyedContractorTotal(*survey)).Abs()
	dev := deviation.StringFixed(2)
	res.SurveyorTotal = &total
	res.Deviation = &dev
	if threshold != nil {
		within := deviation.LessThanOrEqual(threshold.LimitValue)
		res.WithinThreshold = &within
	}

	summary := SurveyorClaimSummary{
		ID:          survey.ID.String(),
		ClaimNumber: survey.ClaimNumber,
		Status:      survey.Status,
		TotalBcm:    survey.TotalBcm.StringFixed(2),
		SubmittedAt: survey.CreatedAt.Format(time.RFC3339),
	}
	if survey.Surveyor != nil {
		summary.SurveyorName = survey.Surveyor.Name
	}
	res.LatestSurvey = &summary

	if withBlocks {
		res.Blocks = compareBlocks(claim, threshold)
	}
	return res, nil
}

// compareBlocks lines each contractor block up against its counter
// measurement. Unsurveyed blocks compare against zero.
func compareBlocks(claim model.Claim, threshold *model.Threshold) []BlockComparison {
	rows := make([]BlockComparison, 0, len(claim.Blocks))
	for _, b := range claim.Blocks {
		surveyorBcm := decimal.Zero
		if b.SurveyorBlock != nil {
			surveyorBcm = b.SurveyorBlock.Bcm
		}
		deviation, pct, within := CompareBlock(b.Bcm, surveyorBcm, threshold)
		row := BlockComparison{
			BlockID:       b.BlockID.String(),
			ContractorBcm: b.Bcm,
			SurveyorBcm:   surveyorBcm,
			Deviation:     deviation,
			DeviationPct:  pct,
			WithinLimit:   within,
		}
		if b.Block != nil {
			row.BlockName = b.Block.Name
		}
		rows = append(rows, row)
	}
	return rows
}
