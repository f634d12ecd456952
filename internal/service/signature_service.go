package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type SignRequest struct {
	SurveyorClaimID string `json:"surveyor_claim_id" binding:"required,uuid"`
	Signature       string `json:"signature" binding:"required"` // base64 image payload
}

type SignatureResponse struct {
	ID       string `json:"id"`
	ClaimID  string `json:"claim_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`
	Role     string `json:"role"`
	SignedAt string `json:"signed_at"`
}

// CertificateResponse is the printable reconciliation certificate: the claim
// and survey figures side by side plus whichever signatures have been
// collected so far, keyed by role.
type CertificateResponse struct {
	SurveyorClaimID string                       `json:"surveyor_claim_id"`
	ClaimNumber     string                       `json:"claim_number"`
	SurveyNumber    string                       `json:"survey_number"`
	PtName          string                       `json:"pt_name"`
	SiteName        string                       `json:"site_name,omitempty"`
	PitName         string                       `json:"pit_name,omitempty"`
	PeriodMonth     int                          `json:"period_month"`
	PeriodYear      int                          `json:"period_year"`
	Status          string                       `json:"status"`
	ContractorTotal string                       `json:"contractor_total"`
	SurveyorTotal   string                       `json:"surveyor_total"`
	Blocks          []BlockComparison            `json:"blocks"`
	Signatures      map[string]SignatureResponse `json:"signatures"`
}

// SignableClaimResponse is one row of the signing worklist: a claim that
// cleared adjudication, paired with its latest survey and the roles that
// have already signed.
type SignableClaimResponse struct {
	SurveyorClaimID string   `json:"surveyor_claim_id"`
	ClaimID         string   `json:"claim_id"`
	ClaimNumber     string   `json:"claim_number"`
	SurveyNumber    string   `json:"survey_number"`
	PtName          string   `json:"pt_name"`
	Status          string   `json:"status"`
	ContractorTotal string   `json:"contractor_total"`
	SurveyorTotal   string   `json:"surveyor_total"`
	SignedRoles     []string `json:"signed_roles"`
}

// --- Interface ---

type SignatureService interface {
	Sign(ctx context.Context, userID uuid.UUID, userRole string, req SignRequest) (SignatureResponse, error)
	ListSignable(ctx context.Context) ([]SignableClaimResponse, error)
	ListForSurvey(ctx context.Context, surveyorClaimID string) ([]SignatureResponse, error)
	Certificate(ctx context.Context, surveyorClaimID string) (CertificateResponse, error)
}

type signatureService struct {
	signatures repository.SignatureRepository
	surveys    repository.SurveyorClaimRepository
	claims     repository.ClaimRepository
	thresholds repository.ThresholdRepository
	tx         repository.TransactionManager
}

func NewSignatureService(
	signatures repository.SignatureRepository,
	surveys repository.SurveyorClaimRepository,
	claims repository.ClaimRepository,
	thresholds repository.ThresholdRepository,
	tx repository.TransactionManager,
) SignatureService {
	return &signatureService{
		signatures: signatures,
		surveys:    surveys,
		claims:     claims,
		thresholds: thresholds,
		tx:         tx,
	}
}

// signatureRoleFor maps an account role to the role it signs under. Admins
// and owners do not sign certificates.
func signatureRoleFor(userRole string) (string, bool) {
	switch userRole {
	case model.RoleSurveyor:
		return model.SignatureRoleSurveyor, true
	case model.RoleManagerial:
		return model.SignatureRoleManagerial, true
	case model.RoleFinance:
		return model.SignatureRoleFinance, true
	case model.RoleContractor:
		return model.SignatureRoleContractor, true
	default:
		return "", false
	}
}

// --- Implementation ---

// Sign records or replaces the caller's signature on a survey. Re-signing
// overwrites the previous image for the same (survey, user, role) key.
func (s *signatureService) Sign(ctx context.Context, userID uuid.UUID, userRole string, req SignRequest) (SignatureResponse, error) {
	role, ok := signatureRoleFor(userRole)
	if !ok {
		return SignatureResponse{}, apperror.NewForbidden("role cannot sign certificates")
	}
	surveyID, err := uuid.Parse(req.SurveyorClaimID)
	if err != nil {
		return SignatureResponse{}, apperror.NewValidation("invalid surveyor claim id")
	}

	sig := model.ClaimSignature{
		ClaimID:   surveyID,
		UserID:    userID,
		Role:      role,
		Signature: req.Signature,
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.surveys.GetWithBlocks(txCtx, surveyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NewNotFound("surveyor claim")
			}
			return fmt.Errorf("fetch surveyor claim: %w", err)
		}
		if err := s.signatures.Upsert(txCtx, &sig); err != nil {
			return fmt.Errorf("upsert signature: %w", err)
		}
		return nil
	})
	if err != nil {
		return SignatureResponse{}, err
	}

	stored, err := s.signatures.Get(ctx, surveyID, userID, role)
	if err != nil {
		return SignatureResponse{}, fmt.Errorf("fetch signature: %w", err)
	}
	if stored == nil {
		return SignatureResponse{}, fmt.Errorf("signature vanished after upsert")
	}
	return toSignatureResponse(*stored), nil
}

// ListSignable returns adjudication-approved claims with their latest survey
// each, oldest signing candidates last.
func (s *signatureService) ListSignable(ctx context.Context) ([]SignableClaimResponse, error) {
	surveys, err := s.surveys.ListForApprovedClaims(ctx)
	if err != nil {
		return nil, fmt.Errorf("list signable surveys: %w", err)
	}

	// Surveys arrive newest first; keep only the latest per claim.
	seen := make(map[uuid.UUID]bool, len(surveys))
	res := make([]SignableClaimResponse, 0, len(surveys))
	for _, sc := range surveys {
		if seen[sc.ClaimID] {
			continue
		}
		seen[sc.ClaimID] = true

		row := SignableClaimResponse{
			SurveyorClaimID: sc.ID.String(),
			ClaimID:         sc.ClaimID.String(),
			SurveyNumber:    sc.ClaimNumber,
			PtName:          sc.PtName,
			SurveyorTotal:   sc.TotalBcm.StringFixed(2),
			SignedRoles:     make([]string, 0, len(sc.Signatures)),
		}
		if sc.Claim != nil {
			row.ClaimNumber = sc.Claim.ClaimNumber
			row.Status = sc.Claim.Status
			row.ContractorTotal = sc.Claim.TotalBcm.StringFixed(2)
		}
		for _, sig := range sc.Signatures {
			row.SignedRoles = append(row.SignedRoles, sig.Role)
		}
		res = append(res, row)
	}
	return res, nil
}

func (s *signatureService) ListForSurvey(ctx context.Context, surveyorClaimID string) ([]SignatureResponse, error) {
	surveyID, err := uuid.Parse(surveyorClaimID)
	if err != nil {
		return nil, apperror.NewValidation("invalid surveyor claim id")
	}
	sigs, err := s.signatures.ListForSurveyorClaim(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list signatures: %w", err)
	}
	res := make([]SignatureResponse, 0, len(sigs))
	for _, sig := range sigs {
		res = append(res, toSignatureResponse(sig))
	}
	return res, nil
}

func (s *signatureService) Certificate(ctx context.Context, surveyorClaimID string) (CertificateResponse, error) {
	surveyID, err := uuid.Parse(surveyorClaimID)
	if err != nil {
		return CertificateResponse{}, apperror.NewValidation("invalid surveyor claim id")
	}
	survey, err := s.surveys.GetWithBlocks(ctx, surveyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CertificateResponse{}, apperror.NewNotFound("surveyor claim")
		}
		return CertificateResponse{}, fmt.Errorf("fetch surveyor claim: %w", err)
	}
	claim, err := s.claims.GetByID(ctx, survey.ClaimID)
	if err != nil {
		return CertificateResponse{}, fmt.Errorf("fetch claim: %w", err)
	}
	threshold, err := s.thresholds.GetActive(ctx)
	if err != nil {
		return CertificateResponse{}, fmt.Errorf("fetch active threshold: %w", err)
	}
	sigs, err := s.signatures.ListForSurveyorClaim(ctx, surveyID)
	if err != nil {
		return CertificateResponse{}, fmt.Errorf("list signatures: %w", err)
	}

	res := CertificateResponse{
		SurveyorClaimID: survey.ID.String(),
		ClaimNumber:     claim.ClaimNumber,
		SurveyNumber:    survey.ClaimNumber,
		PtName:          claim.PtName,
		PeriodMonth:     claim.PeriodMonth,
		PeriodYear:      claim.PeriodYear,
		Status:          claim.Status,
		ContractorTotal: claim.TotalBcm.StringFixed(2),
		SurveyorTotal:   survey.TotalBcm.StringFixed(2),
		Blocks:          compareBlocks(*claim, threshold),
		Signatures:      make(map[string]SignatureResponse, len(sigs)),
	}
	if claim.Site != nil {
		res.SiteName = claim.Site.Name
	}
	if claim.Pit != nil {
		res.PitName = claim.Pit.Name
	}
	for _, sig := range sigs {
		res.Signatures[sig.Role] = toSignatureResponse(sig)
	}
	return res, nil
}

// --- Helpers ---

func toSignatureResponse(sig model.ClaimSignature) SignatureResponse {
	res := SignatureResponse{
		ID:       sig.ID.String(),
		ClaimID:  sig.ClaimID.String(),
		UserID:   sig.UserID.String(),
		Role:     sig.Role,
		SignedAt: sig.UpdatedAt.Format(time.RFC3339),
	}
	if sig.User != nil {
		res.UserName = sig.User.Name
	}
	return res
}
