package service

import (
	"context"
	"os"
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/repository"
	"github.com/Putra-pkwl03/claim-app/internal/storage"
	"github.com/Putra-pkwl03/claim-app/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The tests in this file run the services against a real database so the
// transactional flows (claim submit, replace, survey submit with
// adjudication) are exercised end to end. They skip when TEST_POSTGRES_DSN
// is unset, same as the repository suite.

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping database integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Threshold{},
		&model.Site{},
		&model.SiteCoordinate{},
		&model.Pit{},
		&model.PitCoordinate{},
		&model.Block{},
		&model.Claim{},
		&model.ClaimBlock{},
		&model.SurveyorClaim{},
		&model.SurveyorClaimBlock{},
		&model.ClaimSignature{},
	)
	require.NoError(t, err)
	return db
}

// fixture wires the services over a single test transaction that is rolled
// back on cleanup. RunInTx opens savepoints inside it, so commit and
// rollback behaviour inside the services still works.
type fixture struct {
	tx       *gorm.DB
	claims   ClaimService
	surveyor SurveyorService
	review   ReviewService
}

type discardPublisher struct{}

func (discardPublisher) PublishClaimStatus(ClaimStatusEvent) {}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupServiceDB(t)
	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })

	store, err := storage.NewLocalStore(t.TempDir(), "/files")
	require.NoError(t, err)

	claimRepo := repository.NewClaimRepository(tx)
	surveyRepo := repository.NewSurveyorClaimRepository(tx)
	thresholdRepo := repository.NewThresholdRepository(tx)
	blockRepo := repository.NewBlockRepository(tx)
	txm := repository.NewTransactionManager(tx)

	reconcile := NewReconciliationService(claimRepo, surveyRepo, thresholdRepo)
	claimSvc := NewClaimService(claimRepo, blockRepo, reconcile, store, txm)
	surveyorSvc := NewSurveyorService(surveyRepo, claimRepo, claimSvc, reconcile, store, txm)
	reviewSvc := NewReviewService(claimRepo, surveyRepo, thresholdRepo,
		repository.NewUserRepository(tx), discardPublisher{}, store, txm)

	return &fixture{tx: tx, claims: claimSvc, surveyor: surveyorSvc, review: reviewSvc}
}

func (f *fixture) seedUser(t *testing.T, role string) model.User {
	t.Helper()
	user := model.User{
		Name:     "test " + role,
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, f.tx.Create(&user).Error)
	return user
}

func (f *fixture) seedGeography(t *testing.T) (model.Site, model.Pit, model.Block) {
	t.Helper()
	site := model.Site{
		NoSite:  "TEST SITE - " + uuid.NewString(),
		Name:    "Test Site",
		UtmZone: "50S",
	}
	require.NoError(t, f.tx.Create(&site).Error)

	pit := model.Pit{
		SiteID:  site.ID,
		NoPit:   "TEST PIT - " + uuid.NewString(),
		Name:    "Test Pit",
		UtmZone: "50S",
		Active:  true,
	}
	require.NoError(t, f.tx.Create(&pit).Error)

	block := model.Block{
		PitID:  pit.ID,
		Name:   "B1",
		Status: model.BlockStatusActive,
	}
	require.NoError(t, f.tx.Create(&block).Error)
	return site, pit, block
}

func (f *fixture) seedThreshold(t *testing.T, limit string) model.Threshold {
	t.Helper()
	threshold := model.Threshold{
		Name:       "tolerance " + uuid.NewString(),
		LimitValue: decimal.RequireFromString(limit),
		Active:     true,
	}
	require.NoError(t, f.tx.Create(&threshold).Error)
	return threshold
}

func claimRequest(site model.Site, pit model.Pit, block model.Block, bcms ...string) SubmitClaimRequest {
	req := SubmitClaimRequest{
		PtName:      "PT Test",
		SiteID:      site.ID.String(),
		PitID:       pit.ID.String(),
		PeriodMonth: 7,
		PeriodYear:  2026,
		JobType:     "OB Removal",
	}
	for _, bcm := range bcms {
		req.Blocks = append(req.Blocks, ClaimBlockInput{
			BlockID: block.ID.String(),
			Bcm:     bcm,
			Amount:  "100",
		})
	}
	return req
}

func requireDecimalEq(t *testing.T, want, got string) {
	t.Helper()
	w := decimal.RequireFromString(want)
	g := decimal.RequireFromString(got)
	require.Truef(t, w.Equal(g), "want %s, got %s", want, got)
}

func TestClaimSubmitTotalsMatchBlocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	site, pit, block := f.seedGeography(t)

	res, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "600.5", "399.5"))
	require.NoError(t, err)

	require.Equal(t, model.ClaimStatusSubmitted, res.Status)
	require.Len(t, res.Blocks, 2)
	requireDecimalEq(t, "1000", res.TotalBcm)
	requireDecimalEq(t, "200", res.TotalAmount)

	var stored model.Claim
	require.NoError(t, f.tx.First(&stored, "id = ?", res.ID).Error)
	require.True(t, stored.TotalBcm.Equal(decimal.RequireFromString("1000")))
}

func TestClaimReplaceIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	site, pit, block := f.seedGeography(t)

	created, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "250", "750"))
	require.NoError(t, err)

	req := claimRequest(site, pit, block, "250", "750")
	first, err := f.claims.Replace(ctx, created.ID, contractor.ID, req)
	require.NoError(t, err)
	second, err := f.claims.Replace(ctx, created.ID, contractor.ID, req)
	require.NoError(t, err)

	requireDecimalEq(t, first.TotalBcm, second.TotalBcm)
	requireDecimalEq(t, "1000", second.TotalBcm)
	require.Len(t, second.Blocks, 2)
	require.Equal(t, model.ClaimStatusSubmitted, second.Status)

	var blockCount int64
	require.NoError(t, f.tx.Model(&model.ClaimBlock{}).Where("claim_id = ?", created.ID).Count(&blockCount).Error)
	require.EqualValues(t, 2, blockCount)
}

func TestSurveySubmitAdjudicatesClaim(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	surveyor := f.seedUser(t, model.RoleSurveyor)
	site, pit, block := f.seedGeography(t)
	f.seedThreshold(t, "25")

	claim, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "500", "500"))
	require.NoError(t, err)

	surveyReq := SubmitSurveyRequest{ClaimID: claim.ID}
	for _, cb := range claim.Blocks {
		surveyReq.Blocks = append(surveyReq.Blocks, SurveyBlockInput{
			ClaimBlockID: cb.ID,
			Bcm:          "490",
		})
	}

	survey, err := f.surveyor.Submit(ctx, surveyor.ID, surveyReq)
	require.NoError(t, err)

	// deviation 20 within limit 25, claim lands approved with the survey
	require.Equal(t, model.SurveyorClaimStatusValidated, survey.Status)
	require.NotNil(t, survey.Reconciliation)
	require.Equal(t, model.ClaimStatusAutoApproved, survey.Reconciliation.Status)

	after, err := f.claims.Get(ctx, claim.ID, contractor.ID)
	require.NoError(t, err)
	require.Equal(t, model.ClaimStatusAutoApproved, after.Status)
}

func TestSurveySubmitRejectsBeyondThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	surveyor := f.seedUser(t, model.RoleSurveyor)
	site, pit, block := f.seedGeography(t)
	f.seedThreshold(t, "25")

	claim, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "1000"))
	require.NoError(t, err)
	require.Len(t, claim.Blocks, 1)

	survey, err := f.surveyor.Submit(ctx, surveyor.ID, SubmitSurveyRequest{
		ClaimID: claim.ID,
		Blocks: []SurveyBlockInput{
			{ClaimBlockID: claim.Blocks[0].ID, Bcm: "950"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, survey.Reconciliation)
	require.Equal(t, model.ClaimStatusRejectedSystem, survey.Reconciliation.Status)

	after, err := f.claims.Get(ctx, claim.ID, contractor.ID)
	require.NoError(t, err)
	require.Equal(t, model.ClaimStatusRejectedSystem, after.Status)
}

func TestReplaceRefusedAfterFinanceDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	site, pit, block := f.seedGeography(t)

	claim, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "1000"))
	require.NoError(t, err)
	require.NoError(t, f.tx.Model(&model.Claim{}).
		Where("id = ?", claim.ID).
		Update("status", model.ClaimStatusApprovedFinance).Error)

	_, err = f.claims.Replace(ctx, claim.ID, contractor.ID, claimRequest(site, pit, block, "1000"))
	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestReviewDecideRefusedBeforeAdjudication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	contractor := f.seedUser(t, model.RoleContractor)
	manager := f.seedUser(t, model.RoleManagerial)
	site, pit, block := f.seedGeography(t)

	claim, err := f.claims.Submit(ctx, contractor.ID, claimRequest(site, pit, block, "1000"))
	require.NoError(t, err)

	// still submitted, never surveyed: no numbers to override
	_, err = f.review.Decide(ctx, claim.ID, StageManagerial, manager.ID, DecideClaimRequest{
		Status: model.ClaimStatusApprovedManagerial,
	})
	var conflict *apperror.ConflictError
	require.ErrorAs(t, err, &conflict)
}
