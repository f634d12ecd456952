package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/internal/storage"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// --- DTOs ---

type ClaimBlockInput struct {
	BlockID    string           `json:"block_id" binding:"required,uuid"`
	Bcm        string           `json:"bcm" binding:"required"` // Decimal string
	Amount     string           `json:"amount"`
	Date       string           `json:"date"` // YYYY-MM-DD, optional
	Note       string           `json:"note"`
	Materials  []model.Material `json:"materials"`
	FileBase64 string           `json:"file_base64"` // attachment payload, optional
	FileType   string           `json:"file_type"`   // pdf, png, jpg
}

type SubmitClaimRequest struct {
	PtName      string            `json:"pt_name" binding:"required"`
	SiteID      string            `json:"site_id" binding:"required,uuid"`
	PitID       string            `json:"pit_id" binding:"required,uuid"`
	PeriodMonth int               `json:"period_month" binding:"required,min=1,max=12"`
	PeriodYear  int               `json:"period_year" binding:"required,min=2000"`
	JobType     string            `json:"job_type" binding:"required"`
	Blocks      []ClaimBlockInput `json:"blocks" binding:"required,min=1,dive"`
}

type ClaimBlockResponse struct {
	ID        string           `json:"id"`
	BlockID   string           `json:"block_id"`
	BlockName string           `json:"block_name,omitempty"`
	Bcm       string           `json:"bcm"`
	Amount    string           `json:"amount"`
	Date      *string          `json:"date"`
	Note      string           `json:"note"`
	Materials []model.Material `json:"materials"`
	FileURL   string           `json:"file_url,omitempty"`
	FileType  string           `json:"file_type,omitempty"`
	Surveyed  bool             `json:"surveyed"`
}

type ClaimResponse struct {
	ID          string               `json:"id"`
	ClaimNumber string               `json:"claim_number"`
	PtName      string               `json:"pt_name"`
	SiteID      string               `json:"site_id"`
	SiteName    string               `json:"site_name,omitempty"`
	PitID       string               `json:"pit_id"`
	PitName     string               `json:"pit_name,omitempty"`
	Contractor  string               `json:"contractor,omitempty"`
	PeriodMonth int                  `json:"period_month"`
	PeriodYear  int                  `json:"period_year"`
	JobType     string               `json:"job_type"`
	Status      string               `json:"status"`
	TotalBcm    string               `json:"total_bcm"`
	TotalAmount string               `json:"total_amount"`
	Blocks      []ClaimBlockResponse `json:"blocks,omitempty"`
	CreatedAt   string               `json:"created_at"`
	UpdatedAt   string               `json:"updated_at"`
}

// --- Interface ---

type ClaimService interface {
	Submit(ctx context.Context, contractorID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error)
	Replace(ctx context.Context, id string, contractorID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error)
	Withdraw(ctx context.Context, id string, contractorID uuid.UUID) error
	Get(ctx context.Context, id string, contractorID uuid.UUID) (ClaimResponse, error)
	ListMine(ctx context.Context, contractorID uuid.UUID, offset, limit int) ([]ClaimResponse, int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error)
	ListSubmitted(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error)
}

type claimService struct {
	claims    repository.ClaimRepository
	blocks    repository.BlockRepository
	reconcile ReconciliationService
	store     storage.BlobStore
	tx        repository.TransactionManager
}

func NewClaimService(
	claims repository.ClaimRepository,
	blocks repository.BlockRepository,
	reconcile ReconciliationService,
	store storage.BlobStore,
	tx repository.TransactionManager,
) ClaimService {
	return &claimService{claims: claims, blocks: blocks, reconcile: reconcile, store: store, tx: tx}
}

// --- Implementation ---

func (s *claimService) Submit(ctx context.Context, contractorID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error) {
	siteID, pitID, err := parseClaimRefs(req.SiteID, req.PitID)
	if err != nil {
		return ClaimResponse{}, err
	}

	var claim model.Claim
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		now := time.Now()
		if err := s.claims.LockYearSequence(txCtx, now.Year()); err != nil {
			return fmt.Errorf("lock claim sequence: %w", err)
		}
		count, err := s.claims.CountCreatedInYear(txCtx, now.Year())
		if err != nil {
			return fmt.Errorf("count claims in year: %w", err)
		}

		claim = model.Claim{
			ClaimNumber:  ContractorClaimNumber(count+1, req.PtName, now),
			PtName:       req.PtName,
			ContractorID: contractorID,
			SiteID:       siteID,
			PitID:        pitID,
			PeriodMonth:  req.PeriodMonth,
			PeriodYear:   req.PeriodYear,
			JobType:      req.JobType,
			Status:       model.ClaimStatusSubmitted,
		}
		if err := s.claims.Create(txCtx, &claim); err != nil {
			return fmt.Errorf("create claim: %w", err)
		}
		totalBcm, totalAmount, err := s.insertBlocks(txCtx, claim.ID, pitID, req.Blocks)
		if err != nil {
			return err
		}
		claim.TotalBcm = totalBcm
		claim.TotalAmount = totalAmount
		if err := s.claims.UpdateTotals(txCtx, claim.ID, totalBcm, totalAmount); err != nil {
			return fmt.Errorf("update claim totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}
	return s.Get(ctx, claim.ID.String(), contractorID)
}

// Replace rebuilds a claim's blocks from scratch and regenerates its claim
// number. If a survey already exists for the claim, the comparison re-runs
// against the new figures in the same transaction.
func (s *claimService) Replace(ctx context.Context, id string, contractorID uuid.UUID, req SubmitClaimRequest) (ClaimResponse, error) {
	claimID, err := uuid.Parse(id)
	if err != nil {
		return ClaimResponse{}, apperror.NewValidation("invalid claim id")
	}
	siteID, pitID, err := parseClaimRefs(req.SiteID, req.PitID)
	if err != nil {
		return ClaimResponse{}, err
	}

	var staleFiles []string
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err := s.claims.GetOwned(txCtx, claimID, contractorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("claim")
			}
			return fmt.Errorf("fetch claim: %w", err)
		}
		if IsTerminal(claim.Status) {
			return apperror.NewConflict("claim has a final finance decision and can no longer change")
		}
		for _, b := range claim.Blocks {
			if b.FilePath != "" {
				staleFiles = append(staleFiles, b.FilePath)
			}
		}

		now := time.Now()
		if err := s.claims.LockYearSequence(txCtx, now.Year()); err != nil {
			return fmt.Errorf("lock claim sequence: %w", err)
		}
		count, err := s.claims.CountCreatedInYear(txCtx, now.Year())
		if err != nil {
			return fmt.Errorf("count claims in year: %w", err)
		}

		if err := s.claims.DeleteBlocks(txCtx, claim.ID); err != nil {
			return fmt.Errorf("delete claim blocks: %w", err)
		}
		totalBcm, totalAmount, err := s.insertBlocks(txCtx, claim.ID, pitID, req.Blocks)
		if err != nil {
			return err
		}

		claim.ClaimNumber = ContractorClaimNumber(count+1, req.PtName, now)
		claim.PtName = req.PtName
		claim.SiteID = siteID
		claim.PitID = pitID
		claim.PeriodMonth = req.PeriodMonth
		claim.PeriodYear = req.PeriodYear
		claim.JobType = req.JobType
		claim.Status = model.ClaimStatusSubmitted
		claim.TotalBcm = totalBcm
		claim.TotalAmount = totalAmount
		claim.Blocks = nil
		if err := s.claims.Save(txCtx, claim); err != nil {
			return fmt.Errorf("update claim: %w", err)
		}

		if _, err := s.reconcile.Reconcile(txCtx, claim.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return ClaimResponse{}, err
	}
	s.removeFiles(staleFiles)
	return s.Get(ctx, id, contractorID)
}

func (s *claimService) Withdraw(ctx context.Context, id string, contractorID uuid.UUID) error {
	claimID, err := uuid.Parse(id)
	if err != nil {
		return apperror.NewValidation("invalid claim id")
	}

	var staleFiles []string
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		claim, err := s.claims.GetOwned(txCtx, claimID, contractorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("claim")
			}
			return fmt.Errorf("fetch claim: %w", err)
		}
		if IsTerminal(claim.Status) {
			return apperror.NewConflict("claim has a final finance decision and can no longer change")
		}
		for _, b := range claim.Blocks {
			if b.FilePath != "" {
				staleFiles = append(staleFiles, b.FilePath)
			}
		}
		if err := s.claims.DeleteBlocks(txCtx, claim.ID); err != nil {
			return fmt.Errorf("delete claim blocks: %w", err)
		}
		if err := s.claims.Delete(txCtx, claim); err != nil {
			return fmt.Errorf("delete claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.removeFiles(staleFiles)
	return nil
}

func (s *claimService) Get(ctx context.Context, id string, contractorID uuid.UUID) (ClaimResponse, error) {
	claimID, err := uuid.Parse(id)
	if err != nil {
		return ClaimResponse{}, apperror.NewValidation("invalid claim id")
	}
	claim, err := s.claims.GetOwned(ctx, claimID, contractorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ClaimResponse{}, apperror.NewNotFound("claim")
		}
		return ClaimResponse{}, fmt.Errorf("fetch claim: %w", err)
	}
	return s.toClaimResponse(*claim), nil
}

func (s *claimService) ListMine(ctx context.Context, contractorID uuid.UUID, offset, limit int) ([]ClaimResponse, int64, error) {
	claims, total, err := s.claims.ListByContractor(ctx, contractorID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	return s.toClaimResponses(claims), total, nil
}

func (s *claimService) ListAll(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error) {
	claims, total, err := s.claims.ListAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	return s.toClaimResponses(claims), total, nil
}

// ListSubmitted is the surveyor-facing worklist of claims past draft.
func (s *claimService) ListSubmitted(ctx context.Context, offset, limit int) ([]ClaimResponse, int64, error) {
	claims, total, err := s.claims.ListSubmitted(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list claims: %w", err)
	}
	return s.toClaimResponses(claims), total, nil
}

func (s *claimService) toClaimResponses(claims []model.Claim) []ClaimResponse {
	res := make([]ClaimResponse, 0, len(claims))
	for _, c := range claims {
		res = append(res, s.toClaimResponse(c))
	}
	return res
}

// --- Helpers ---

// insertBlocks creates the claim's block rows and returns the summed totals.
// Block references are checked against the claim's pit so a contractor cannot
// book volume into another pit's geometry.
func (s *claimService) insertBlocks(ctx context.Context, claimID, pitID uuid.UUID, inputs []ClaimBlockInput) (decimal.Decimal, decimal.Decimal, error) {
	totalBcm := decimal.Zero
	totalAmount := decimal.Zero
	for i, in := range inputs {
		blockID, err := uuid.Parse(in.BlockID)
		if err != nil {
			return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("invalid block reference",
				map[string]string{fmt.Sprintf("blocks.%d.block_id", i): "must be a valid uuid"})
		}
		block, err := s.blocks.GetByID(ctx, blockID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("unknown block",
					map[string]string{fmt.Sprintf("blocks.%d.block_id", i): "block does not exist"})
			}
			return decimal.Zero, decimal.Zero, fmt.Errorf("fetch block: %w", err)
		}
		if block.PitID != pitID {
			return decimal.Zero, decimal.Zero, apperror.NewFieldValidation("block belongs to a different pit",
				map[string]string{fmt.Sprintf("blocks.%d.block_id", i): "must belong to the claim's pit"})
		}

		bcm, amount, date, err := parseBlockFields(in, i)
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

		cb := model.ClaimBlock{
			ClaimID:   claimID,
			BlockID:   blockID,
			Bcm:       bcm,
			Amount:    amount,
			Date:      date,
			Note:      in.Note,
			Materials: materials,
			FilePath:  filePath,
			FileType:  in.FileType,
		}
		if err := s.claims.CreateBlock(ctx, &cb); err != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("create claim block: %w", err)
		}
		totalBcm = totalBcm.Add(bcm)
		totalAmount = totalAmount.Add(amount)
	}
	return totalBcm, totalAmount, nil
}

func (s *claimService) storeAttachment(fileBase64, fileType string) (string, error) {
	if fileBase64 == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(fileBase64)
	if err != nil {
		return "", apperror.NewValidation("invalid file payload: not valid base64")
	}
	key, err := s.store.Store(data, "claims", fileType)
	if err != nil {
		return "", err
	}
	return key, nil
}

// removeFiles is best-effort cleanup after a committed delete or replace.
func (s *claimService) removeFiles(keys []string) {
	for _, key := range keys {
		if err := s.store.Delete(key); err != nil {
			log.Printf("WARNING: failed to remove attachment %s: %v", key, err)
		}
	}
}

func (s *claimService) toClaimResponse(c model.Claim) ClaimResponse {
	return mapClaimResponse(c, s.store)
}

func mapClaimResponse(c model.Claim, store storage.BlobStore) ClaimResponse {
	resp := ClaimResponse{
		ID:          c.ID.String(),
		ClaimNumber: c.ClaimNumber,
		PtName:      c.PtName,
		SiteID:      c.SiteID.String(),
		PitID:       c.PitID.String(),
		PeriodMonth: c.PeriodMonth,
		PeriodYear:  c.PeriodYear,
		JobType:     c.JobType,
		Status:      c.Status,
		TotalBcm:    c.TotalBcm.StringFixed(2),
		TotalAmount: c.TotalAmount.StringFixed(2),
		CreatedAt:   c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   c.UpdatedAt.Format(time.RFC3339),
	}
	if c.Site != nil {
		resp.SiteName = c.Site.Name
	}
	if c.Pit != nil {
		resp.PitName = c.Pit.Name
	}
	if c.Contractor != nil {
		resp.Contractor = c.Contractor.Name
	}
	for _, b := range c.Blocks {
		resp.Blocks = append(resp.Blocks, mapClaimBlockResponse(b, store))
	}
	return resp
}

func mapClaimBlockResponse(b model.ClaimBlock, store storage.BlobStore) ClaimBlockResponse {
	resp := ClaimBlockResponse{
		ID:       b.ID.String(),
		BlockID:  b.BlockID.String(),
		Bcm:      b.Bcm.StringFixed(2),
		Amount:   b.Amount.StringFixed(2),
		Note:     b.Note,
		FileType: b.FileType,
		Surveyed: b.SurveyorBlock != nil,
	}
	if b.Block != nil {
		resp.BlockName = b.Block.Name
	}
	if b.Date != nil {
		d := b.Date.Format("2006-01-02")
		resp.Date = &d
	}
	if b.FilePath != "" {
		resp.FileURL = store.URLFor(b.FilePath)
	}
	if len(b.Materials) > 0 {
		_ = json.Unmarshal(b.Materials, &resp.Materials)
	}
	return resp
}

func parseClaimRefs(siteID, pitID string) (uuid.UUID, uuid.UUID, error) {
	sid, err := uuid.Parse(siteID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.NewFieldValidation("invalid site reference", map[string]string{"site_id": "must be a valid uuid"})
	}
	pid, err := uuid.Parse(pitID)
	if err != nil {
		return uuid.Nil, uuid.Nil, apperror.NewFieldValidation("invalid pit reference", map[string]string{"pit_id": "must be a valid uuid"})
	}
	return sid, pid, nil
}

func parseBlockFields(in ClaimBlockInput, idx int) (decimal.Decimal, decimal.Decimal, *time.Time, error) {
	bcm, err := decimal.NewFromString(in.Bcm)
	if err != nil || bcm.IsNegative() {
		return decimal.Zero, decimal.Zero, nil, apperror.NewFieldValidation("invalid bcm value",
			map[string]string{fmt.Sprintf("blocks.%d.bcm", idx): "must be a non-negative decimal"})
	}
	amount := decimal.Zero
	if in.Amount != "" {
		amount, err = decimal.NewFromString(in.Amount)
		if err != nil || amount.IsNegative() {
			return decimal.Zero, decimal.Zero, nil, apperror.NewFieldValidation("invalid amount value",
				map[string]string{fmt.Sprintf("blocks.%d.amount", idx): "must be a non-negative decimal"})
		}
	}
	var date *time.Time
	if in.Date != "" {
		d, err := time.Parse("2006-01-02", in.Date)
		if err != nil {
			return decimal.Zero, decimal.Zero, nil, apperror.NewFieldValidation("invalid date",
				map[string]string{fmt.Sprintf("blocks.%d.date", idx): "expected YYYY-MM-DD"})
		}
		date = &d
	}
	return bcm, amount, date, nil
}

func marshalMaterials(materials []model.Material) (datatypes.JSON, error) {
	if len(materials) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(materials)
	if err != nil {
		return nil, fmt.Errorf("encode materials: %w", err)
	}
	return datatypes.JSON(raw), nil
}
