package repository

import (
	"context"
	"testing"

	"github.com/Putra-pkwl03/claim-app/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThresholdActivationExclusivity(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewThresholdRepository(tx)
	ctx := context.Background()

	first := model.Threshold{Name: "loose " + uuid.NewString(), LimitValue: decimal.NewFromInt(50), Active: true}
	second := model.Threshold{Name: "strict " + uuid.NewString(), LimitValue: decimal.NewFromInt(10), Active: true}
	require.NoError(t, repo.Create(ctx, &first))
	require.NoError(t, repo.Create(ctx, &second))

	// Activating the second deactivates everything else.
	require.NoError(t, repo.DeactivateOthers(ctx, second.ID))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)

	reloaded, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
}

func TestThresholdGetActiveReturnsNilWhenNoneActive(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewThresholdRepository(tx)
	ctx := context.Background()

	inactive := model.Threshold{Name: "dormant " + uuid.NewString(), LimitValue: decimal.NewFromInt(25), Active: false}
	require.NoError(t, repo.Create(ctx, &inactive))
	require.NoError(t, repo.DeactivateOthers(ctx, uuid.Nil))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestThresholdCountByNameExcludesSelf(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewThresholdRepository(tx)
	ctx := context.Background()

	name := "ops " + uuid.NewString()
	threshold := model.Threshold{Name: name, LimitValue: decimal.NewFromInt(25)}
	require.NoError(t, repo.Create(ctx, &threshold))

	count, err := repo.CountByName(ctx, name, uuid.Nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountByName(ctx, name, threshold.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestThresholdDeleteRemovesRow(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewThresholdRepository(tx)
	ctx := context.Background()

	threshold := model.Threshold{Name: "temp " + uuid.NewString(), LimitValue: decimal.NewFromInt(25)}
	require.NoError(t, repo.Create(ctx, &threshold))
	require.NoError(t, repo.Delete(ctx, threshold.ID))

	_, err := repo.GetByID(ctx, threshold.ID)
	assert.Error(t, err)
}
