package repository

import (
	"os"
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB connects to the database named by TEST_POSTGRES_DSN and
// migrates the schema. Tests that need a real database skip when the
// variable is unset, so the pure-logic suite still runs everywhere.
func setupTestDB(t *testing.T) *gorm.DB {
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

// testTx hands each test its own transaction and rolls it back on cleanup,
// so tests never see each other's rows.
func testTx(t *testing.T, db *gorm.DB) *gorm.DB {
	t.Helper()
	tx := db.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func seedUser(t *testing.T, tx *gorm.DB, role string) model.User {
	t.Helper()
	user := model.User{
		Name:     "test " + role,
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     role,
		Status:   model.UserStatusActive,
	}
	require.NoError(t, tx.Create(&user).Error)
	return user
}

func seedGeography(t *testing.T, tx *gorm.DB) (model.Site, model.Pit, model.Block) {
	t.Helper()
	site := model.Site{
		NoSite:  "TEST SITE - " + uuid.NewString(),
		Name:    "Test Site",
		UtmZone: "50S",
	}
	require.NoError(t, tx.Create(&site).Error)

	pit := model.Pit{
		SiteID:  site.ID,
		NoPit:   "TEST PIT - " + uuid.NewString(),
		Name:    "Test Pit",
		UtmZone: "50S",
		Active:  true,
	}
	require.NoError(t, tx.Create(&pit).Error)

	block := model.Block{
		PitID:  pit.ID,
		Name:   "B1",
		Status: model.BlockStatusActive,
	}
	require.NoError(t, tx.Create(&block).Error)
	return site, pit, block
}
