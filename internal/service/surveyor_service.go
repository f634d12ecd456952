package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
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

type SurveyBlockInput struct {
	ClaimBlockID string           `json:"claim_block_id" binding:"required,uuid"`
	Bcm          string           `json:"bcm" binding:"required"`
	Amount       string           `json:"amount"`
	Date         string           `json:"date"`
	Note         string           `json:"note"`
	Materials    []model.Material `json:"materials"`
	FileBase64   string           `json:"file_base64"`
	FileType     string           `json:"file_type"`
}

type SubmitSurveyRequest struct {
	ClaimID string             `json:"claim_id" binding:"required,uuid"`
	Blocks  []SurveyBlockInput `json:"blocks" binding:"required,min=1,dive"`
}

type ReplaceSurveyRequest struct {
	Blocks []SurveyBlockInput `json:"blocks" binding:"required,min=1,dive"`
}

type SurveyBlockResponse struct {
	ID            string           `json:"id"`
	ClaimBlockID  string           `json:"claim_block_id"`
	BlockID       string           `json:"block_id"`
	BlockName     string           `json:"block_name,omitempty"`
	Bcm           string           `json:"bcm"`
	ContractorBcm string           `json:"contractor_bcm,omitempty"`
	Amount        string           `json:"amount"`
	Date          *string          `json:"date"`
	Note          string           `json:"note"`
	Materials     []model.Material `json:"materials"`
	FileURL       string           `json:"file_url,omitempty"`
	FileType      string           `json:"file_type,omitempty"`
}

type SurveyResponse struct {
	ID             string                `json:"id"`
	ClaimID        string                `json:"claim_id"`
	ClaimNumber    string                `json:"claim_number"`
	PtName         string                `json:"pt_name"`
	SiteID         string                `json:"site_id"`
	SiteName       string                `json:"site_name,omitempty"`
	PitID          string                `json:"pit_id"`
	PitName        string                `json:"pit_name,omitempty"`
	PeriodMonth    int                   `json:"period_month"`
	PeriodYear     int                   `json:"period_year"`
	JobType        string                `json:"job_type"`
	Status         string                `json:"status"`
	TotalBcm       string                `json:"total_bcm"`
	TotalAmount    string                `json:"total_amount"`
	Blocks         []SurveyBlockResponse `json:"blocks,omitempty"`
	Reconciliation *ReconciliationResult `json:"reconciliation,omitempty"`
	CreatedAt      string                `json:"created_at"`
	UpdatedAt      string                `json:"updated_at"`
}

// --- Interface ---

type SurveyorService interface {
	Submit(ctx context.Context, surveyorID uuid.UUID, req SubmitSurveyRequest) (SurveyResponse, error)
	Replace(ctx context.Context, id string, surveyorID uuid.UUID, req ReplaceSurveyRequest) (SurveyResponse, error)
	Withdraw(ctx context.Context, id string, surveyorID uuid.UUID) error
	Get(ctx context.Context, id string, surveyorID uuid.UUID) (SurveyResponse, error)
	ListMine(ctx context.Context, surveyorID uuid.UUID, offset, limit int) ([]SurveyResponse, int64, error)
	ListClaimsToSurvey(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error)
}

type surveyorService struct {
	surveys   repository.SurveyorClaimRepository
	claims    repository.ClaimRepository
	claimSvc  ClaimService
	reconcile ReconciliationService
	store     storage.BlobStore
	tx        repository.TransactionManager
}

func NewSurveyorService(
	surveys repository.SurveyorClaimRepository,
	claims repository.ClaimRepository,
	claimSvc ClaimService,
	reconcile ReconciliationService,
	store storage.BlobStore,
	tx repository.TransactionManager,
) SurveyorService {
	return &surveyorService{
		surveys:   surveys,
		claims:    claims,
		claimSvc:  claimSvc,
		reconcile: reconcile,
		store:     store,
		tx:        tx,
	}
}

// --- Implementation ---

// Submit records a counter-measurement for a claim and adjudicates the claim
// in the same transaction: either both the survey and the verdict land, or
// neither does.
func (s *surveyorService) Submit(ctx context.Context, surveyorID uuid.UUID, req SubmitSurveyRequest) (SurveyResponse, error) {
	claimID, err := uuid.Parse(req.ClaimID)
	if err != nil {
		return SurveyResponse{}, apperror.NewValidation("invalid claim id")
	}

	var (
		survey model.SurveyorClaim
		result *ReconciliationResult
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err := s.claims.GetByID(txCtx, claimID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("claim")
			}
			return fmt.Errorf("fetch claim: %w", err)
		}
		if claim.Status == model.ClaimStatusDraft {
			return apperror.NewConflict("claim has not been submitted yet")
		}
		if IsTerminal(claim.Status) {
			return apperror.NewConflict("claim has a final finance decision and can no longer change")
		}

		now := time.Now()
		survey = model.SurveyorClaim{
			ClaimID:     claim.ID,
			ClaimNumber: SurveyorClaimNumber(now),
			PtName:      claim.PtName,
			SurveyorID:  surveyorID,
			SiteID:      claim.SiteID,
			PitID:       claim.PitID,
			PeriodMonth: claim.PeriodMonth,
			PeriodYear:  claim.PeriodYear,
			JobType:     claim.JobType,
			Status:      model.SurveyorClaimStatusSubmitted,
		}
		if err := s.surveys.Create(txCtx, &survey); err != nil {
			return fmt.Errorf("create survey: %w", err)
		}
		totalBcm, totalAmount, err := s.insertSurveyBlocks(txCtx, &survey, claim, req.Blocks)
		if err != nil {
			return err
		}
		survey.TotalBcm = totalBcm
		survey.TotalAmount = totalAmount
		if err := s.surveys.UpdateTotals(txCtx, survey.ID, totalBcm, totalAmount, ""); err != nil {
			return fmt.Errorf("update survey totals: %w", err)
		}

		result, err = s.reconcile.Reconcile(txCtx, claim.ID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return SurveyResponse{}, err
	}

	res, err := s.Get(ctx, survey.ID.String(), surveyorID)
	if err != nil {
		return SurveyResponse{}, err
	}
	res.Reconciliation = result
	return res, nil
}

// Replace rebuilds the survey's measurements and re-runs adjudication against
// them. Only the owning surveyor may replace a survey.
func (s *surveyorService) Replace(ctx context.Context, id string, surveyorID uuid.UUID, req ReplaceSurveyRequest) (SurveyResponse, error) {
	surveyID, err := uuid.Parse(id)
	if err != nil {
		return SurveyResponse{}, apperror.NewValidation("invalid survey id")
	}

	var (
		result     *ReconciliationResult
		staleFiles []string
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		survey, err := s.surveys.GetOwned(txCtx, surveyID, surveyorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("survey")
			}
			return fmt.Errorf("fetch survey: %w", err)
		}
		claim, err := s.claims.GetByID(txCtx, survey.ClaimID)
		if err != nil {
			return fmt.Errorf("fetch claim: %w", err)
		}
		if IsTerminal(claim.Status) {
			return apperror.NewConflict("claim has a final finance decision and can no longer change")
		}
		for _, b := range survey.Blocks {
			if b.FilePath != "" {
				staleFiles = append(staleFiles, b.FilePath)
			}
		}

		if err := s.surveys.DeleteBlocks(txCtx, survey.ID); err != nil {
			return fmt.Errorf("delete survey blocks: %w", err)
		}
		totalBcm, totalAmount, err := s.insertSurveyBlocks(txCtx, survey, claim, req.Blocks)
		if err != nil {
			return err
		}

		survey.ClaimNumber = SurveyorClaimNumber(time.Now())
		survey.Status = model.SurveyorClaimStatusSubmitted
		survey.TotalBcm = totalBcm
		survey.TotalAmount = totalAmount
		survey.Blocks = nil
		if err := s.surveys.Save(txCtx, survey); err != nil {
			return fmt.Errorf("update survey: %w", err)
		}

		result, err = s.reconcile.Reconcile(txCtx, claim.ID)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return SurveyResponse{}, err
	}
	s.removeFiles(staleFiles)

	res, err := s.Get(ctx, id, surveyorID)
	if err != nil {
		return SurveyResponse{}, err
	}
	res.Reconciliation = result
	return res, nil
}

// Withdraw deletes a survey. If an older survey remains for the claim, the
// claim is re-adjudicated against it; when none remains the claim returns to
// submitted, awaiting a fresh survey.
func (s *surveyorService) Withdraw(ctx context.Context, id string, surveyorID uuid.UUID) error {
	surveyID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid survey id")
	}

	var staleFiles []string
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		survey, err := s.surveys.GetOwned(txCtx, surveyID, surveyorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("survey")
			}
			return fmt.Errorf("fetch survey: %w", err)
		}
		claim, err := s.claims.GetByID(txCtx, survey.ClaimID)
		if err != nil {
			return fmt.Errorf("fetch claim: %w", err)
		}
		if IsTerminal(claim.Status) {
			return apperror.NewConflict("claim has a final finance decision and can no longer change")
		}
		for _, b := range survey.Blocks {
			if b.FilePath != "" {
				staleFiles = append(staleFiles, b.FilePath)
			}
		}
		if err := s.surveys.DeleteBlocks(txCtx, survey.ID); err != nil {
			return fmt.Errorf("delete survey blocks: %w", err)
		}
		if err := s.surveys.Delete(txCtx, survey); err != nil {
			return fmt.Errorf("delete survey: %w", err)
		}

		remaining, err := s.surveys.LatestForClaim(txCtx, claim.ID)
		if err != nil {
			return fmt.Errorf("fetch remaining survey: %w", err)
		}
		if remaining == nil {
			if err := s.claims.UpdateStatus(txCtx, claim.ID, model.ClaimStatusSubmitted); err != nil {
				return fmt.Errorf("reset claim status: %w", err)
			}
			return nil
		}
		if _, err := s.reconcile.Reconcile(txCtx, claim.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.removeFiles(staleFiles)
	return nil
}

func (s *surveyorService) Get(ctx context.Context, id string, surveyorID uuid.UUID) (SurveyResponse, error) {
	surveyID, err := uuid.Parse(id)
	if err != nil {
		return SurveyResponse{}, apperror.NewValidation("invalid survey id")
	}
	survey, err := s.surveys.GetOwned(ctx, surveyID, surveyorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SurveyResponse{}, apperror.NewNotFound("survey")
		}
		return SurveyResponse{}, fmt.Errorf("fetch survey: %w", err)
	}
	return s.toSurveyResponse(*survey), nil
}

func (s *surveyorService) ListMine(ctx context.Context, surveyorID uuid.UUID, offset, limit int) ([]SurveyResponse, int64, error) {
	surveys, total, err := s.surveys.ListBySurveyor(ctx, surveyorID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list surveys: %w", err)
	}
	res := make([]SurveyResponse, 0, len(surveys))
	for _, sc := range surveys {
		res = append(res, s.toSurveyResponse(sc))
	}
	return res, total, nil
}

// ListClaimsToSurvey exposes every non-draft claim so surveyors can pick what
// to measure next.
func (s *surveyorService) ListClaimsToSurvey(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error) {
	return s.claimSvc.ListSubmitted(ctx, offset, limit)
}

// --- Helpers ---

// insertSurveyBlocks creates the survey's measurement rows. Every measurement
// must reference a block of the claim under survey, and no claim block may be
// measured twice in one survey.
func (s *surveyorService) insertSurveyBlocks(ctx context.Context, survey *model.SurveyorClaim, claim *model.Claim, inputs []SurveyBlockInput) (decimal.Decimal, decimal.Decimal, error) {
	claimBlocks := make(map[uuid.UUID]model.ClaimBlock, len(claim.Blocks))
	for _, b := range claim.Blocks {
		claimBlocks[b.ID] = b
	}

	seen := make(map[uuid.UUID]bool, len(inputs))
	totalBcm := decimal.Zero
	totalAmount := decimal.Zero
	for i, in := range inputs {
		claimBlockID, err := uuid.Parse(in.ClaimBlockID)
		if err != nil {
			return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("invalid claim block reference",
				map[string]string{fmt.Sprintf("blocks.%d.claim_block_id", i): "must be a valid uuid"})
		}
		cb, ok := claimBlocks[claimBlockID]
		if !ok {
			return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("unknown claim block",
				map[string]string{fmt.Sprintf("blocks.%d.claim_block_id", i): "does not belong to the claim under survey"})
		}
		if seen[claimBlockID] {
			return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("duplicate claim block",
				map[string]string{fmt.Sprintf("blocks.%d.claim_block_id", i): "measured more than once"})
		}
		seen[claimBlockID] = true

		bcm, amount, date, err := parseBlockFields(ClaimBlockInput{
			Bcm: in.Bcm, Amount: in.Amount, Date: in.Date,
		}, i)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		materials, err := marshalMaterials(in.Materials)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		filePath, err := s.storeAttachment(in.FileBase64, in.FileType)
		if err != nil {
			return decimal.Zero, decimal.Zero, err
		}

		sb := model.SurveyorClaimBlock{
			SurveyorClaimID: survey.ID,
			ClaimBlockID:    claimBlockID,
			BlockID:         cb.BlockID,
			Bcm:             bcm,
			Amount:          amount,
			Date:            date,
			Note:            in.Note,
			Materials:       materials,
			FilePath:        filePath,
			FileType:        in.FileType,
			IsSurveyed:      true,
		}
		if err := s.surveys.CreateBlock(ctx, &sb); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("create survey block: %w", err)
		}
		totalBcm = totalBcm.Add(bcm)
		totalAmount = totalAmount.Add(amount)
	}
	return totalBcm, totalAmount, nil
}

func (s *surveyorService) storeAttachment(fileBase64, fileType string) (string, error) {
	if fileBase64 == "" {
		return "", nil
	}
	data, err := decodeBase64(fileBase64)
	if err != nil {
		return "", err
	}
	return s.store.Store(data, "surveys", fileType)
}

func (s *surveyorService) removeFiles(keys []string) {
	for _, key := range keys {
		_ = s.store.Delete(key)
	}
}

func (s *surveyorService) toSurveyResponse(sc model.SurveyorClaim) SurveyResponse {
	resp := SurveyResponse{
		ID:          sc.ID.String(),
		ClaimID:     sc.ClaimID.String(),
		ClaimNumber: sc.ClaimNumber,
		PtName:      sc.PtName,
		SiteID:      sc.SiteID.String(),
		PitID:       sc.PitID.String(),
		PeriodMonth: sc.PeriodMonth,
		PeriodYear:  sc.PeriodYear,
		JobType:     sc.JobType,
		Status:      sc.Status,
		TotalBcm:    sc.TotalBcm.StringFixed(2),
		TotalAmount: sc.TotalAmount.StringFixed(2),
		CreatedAt:   sc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   sc.UpdatedAt.Format(time.RFC3339),
	}
	if sc.Site != nil {
		resp.SiteName = sc.Site.Name
	}
	if sc.Pit != nil {
		resp.PitName = sc.Pit.Name
	}
	for _, b := range sc.Blocks {
		blockResp := SurveyBlockResponse{
			ID:           b.ID.String(),
			ClaimBlockID: b.ClaimBlockID.String(),
			BlockID:      b.BlockID.String(),
			Bcm:          b.Bcm.StringFixed(2),
			Amount:       b.Amount.StringFixed(2),
			Note:         b.Note,
			FileType:     b.FileType,
		}
		if b.Block != nil {
			blockResp.BlockName = b.Block.Name
		}
		if b.ClaimBlock != nil {
			blockResp.ContractorBcm = b.ClaimBlock.Bcm.StringFixed(2)
		}
		if b.Date != nil {
			d := b.Date.Format("2006-01-02")
			blockResp.Date = &d
		}
		if b.FilePath != "" {
			blockResp.FileURL = s.store.URLFor(b.FilePath)
		}
		if len(b.Materials) > 0 {
			_ = json.Unmarshal(b.Materials, &blockResp.Materials)
		}
		resp.Blocks = append(resp.Blocks, blockResp)
	}
	return resp
}

func decodeBase64(payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperror.NewValidation("invalid file payload: not valid base64")
	}
	return data, nil
}
