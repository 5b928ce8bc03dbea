package repository_test

import (
	"context"
	"testing"

	"github.com/luxone/quotation-api/internal/repository"
	"github.com/luxone/quotation-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberSequenceRepository_GetNextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	current, err := repo.GetCurrentSequence(ctx, "LUX", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	for want := 1; want <= 3; want++ {
		got, err := repo.GetNextNumber(ctx, "LUX", 2026)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Each year starts over
	got, err := repo.GetNextNumber(ctx, "LUX", 2027)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	current, err = repo.GetCurrentSequence(ctx, "LUX", 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, current)
}
