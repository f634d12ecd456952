package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedClaim(t *testing.T, tx *gorm.DB, contractor model.User, site model.Site, pit model.Pit) model.Claim {
	t.Helper()
	claim := model.Claim{
		ClaimNumber:  "001/PIK-SRV/PT TEST/OB/I/2026 " + uuid.NewString(),
		PtName:       "PT TEST",
		ContractorID: contractor.ID,
		SiteID:       site.ID,
		PitID:        pit.ID,
		PeriodMonth:  1,
		PeriodYear:   2026,
		JobType:      "OB",
		Status:       model.ClaimStatusSubmitted,
		TotalBcm:     decimal.NewFromInt(1000),
		TotalAmount:  decimal.NewFromInt(50000),
	}
	require.NoError(t, tx.Create(&claim).Error)
	return claim
}

func TestClaimOwnershipIsolation(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewClaimRepository(tx)
	ctx := context.Background()

	owner := seedUser(t, tx, model.RoleContractor)
	other := seedUser(t, tx, model.RoleContractor)
	site, pit, _ := seedGeography(t, tx)
	claim := seedClaim(t, tx, owner, site, pit)

	got, err := repo.GetOwned(ctx, claim.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, claim.ID, got.ID)

	// A foreign claim behaves exactly like a missing one.
	_, err = repo.GetOwned(ctx, claim.ID, other.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestLatestSurveyWins(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewSurveyorClaimRepository(tx)
	ctx := context.Background()

	contractor := seedUser(t, tx, model.RoleContractor)
	surveyor := seedUser(t, tx, model.RoleSurveyor)
	site, pit, _ := seedGeography(t, tx)
	claim := seedClaim(t, tx, contractor, site, pit)

	older := model.SurveyorClaim{
		ClaimID:     claim.ID,
		ClaimNumber: "PIK-SRV/1000000001",
		SurveyorID:  surveyor.ID,
		SiteID:      site.ID,
		PitID:       pit.ID,
		PeriodMonth: 1,
		PeriodYear:  2026,
		JobType:     "OB",
		Status:      model.SurveyorClaimStatusValidated,
		TotalBcm:    decimal.NewFromInt(900),
	}
	require.NoError(t, repo.Create(ctx, &older))
	require.NoError(t, tx.Model(&older).Update("created_at", time.Now().Add(-time.Hour)).Error)

	newer := model.SurveyorClaim{
		ClaimID:     claim.ID,
		ClaimNumber: "PIK-SRV/1000000002",
		SurveyorID:  surveyor.ID,
		SiteID:      site.ID,
		PitID:       pit.ID,
		PeriodMonth: 1,
		PeriodYear:  2026,
		JobType:     "OB",
		Status:      model.SurveyorClaimStatusSubmitted,
		TotalBcm:    decimal.NewFromInt(990),
	}
	require.NoError(t, repo.Create(ctx, &newer))

	latest, err := repo.LatestForClaim(ctx, claim.ID)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestLatestSurveyNilWhenUnsurveyed(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewSurveyorClaimRepository(tx)
	ctx := context.Background()

	contractor := seedUser(t, tx, model.RoleContractor)
	site, pit, _ := seedGeography(t, tx)
	claim := seedClaim(t, tx, contractor, site, pit)

	latest, err := repo.LatestForClaim(ctx, claim.ID)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestCountCreatedInYear(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewClaimRepository(tx)
	ctx := context.Background()

	contractor := seedUser(t, tx, model.RoleContractor)
	site, pit, _ := seedGeography(t, tx)

	before, err := repo.CountCreatedInYear(ctx, time.Now().Year())
	require.NoError(t, err)

	seedClaim(t, tx, contractor, site, pit)
	seedClaim(t, tx, contractor, site, pit)

	after, err := repo.CountCreatedInYear(ctx, time.Now().Year())
	require.NoError(t, err)
	assert.Equal(t, before+2, after)
}

func TestClaimListByContractorPages(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewClaimRepository(tx)
	ctx := context.Background()

	contractor := seedUser(t, tx, model.RoleContractor)
	site, pit, _ := seedGeography(t, tx)
	for i := 0; i < 3; i++ {
		seedClaim(t, tx, contractor, site, pit)
	}

	page, total, err := repo.ListByContractor(ctx, contractor.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	rest, total, err := repo.ListByContractor(ctx, contractor.ID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rest, 1)
}

func TestSignatureUpsertReplacesImage(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	surveyRepo := NewSurveyorClaimRepository(tx)
	sigRepo := NewSignatureRepository(tx)
	ctx := context.Background()

	contractor := seedUser(t, tx, model.RoleContractor)
	surveyor := seedUser(t, tx, model.RoleSurveyor)
	site, pit, _ := seedGeography(t, tx)
	claim := seedClaim(t, tx, contractor, site, pit)

	survey := model.SurveyorClaim{
		ClaimID:     claim.ID,
		ClaimNumber: "PIK-SRV/1000000003",
		SurveyorID:  surveyor.ID,
		SiteID:      site.ID,
		PitID:       pit.ID,
		PeriodMonth: 1,
		PeriodYear:  2026,
		JobType:     "OB",
		Status:      model.SurveyorClaimStatusValidated,
	}
	require.NoError(t, surveyRepo.Create(ctx, &survey))

	first := model.ClaimSignature{ClaimID: survey.ID, UserID: surveyor.ID, Role: model.SignatureRoleSurveyor, Signature: "v1"}
	require.NoError(t, sigRepo.Upsert(ctx, &first))

	second := model.ClaimSignature{ClaimID: survey.ID, UserID: surveyor.ID, Role: model.SignatureRoleSurveyor, Signature: "v2"}
	require.NoError(t, sigRepo.Upsert(ctx, &second))

	sigs, err := sigRepo.ListForSurveyorClaim(ctx, survey.ID)
	require.NoError(t, err)
	require.Len(t, sigs, 1)
	assert.Equal(t, "v2", sigs[0].Signature)
}
