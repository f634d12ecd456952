package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPitGetByIDPreloadsSite(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewPitRepository(tx)
	ctx := context.Background()

	site, pit, _ := seedGeography(t, tx)

	got, err := repo.GetByID(ctx, pit.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Site)
	assert.Equal(t, site.ID, got.Site.ID)
}

func TestBlockGetByIDPreloadsPit(t *testing.T) {
	db := setupTestDB(t)
	tx := testTx(t, db)
	repo := NewBlockRepository(tx)
	ctx := context.Background()

	_, pit, block := seedGeography(t, tx)

	got, err := repo.GetByID(ctx, block.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Pit)
	assert.Equal(t, pit.ID, got.Pit.ID)
}
