package repositories_test

import (
	"context"
	"testing"

	"finboard/src/models"
	"finboard/src/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repositories.NewPortfolioRepository(db)
	holdingRepo := repositories.NewHoldingRepository(db)
	ctx := context.Background()

	t.Run("Create, Get and ListByUser", func(t *testing.T) {
		p := &models.Portfolio{UserID: testUser, Name: "Long term", Description: "retirement"}
		require.NoError(t, repo.Create(ctx, p, nil))
		assert.NotZero(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, testUser, p.ID, nil)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Long term", got.Name)

		list, err := repo.ListByUser(ctx, testUser)
		require.NoError(t, err)
		assert.NotEmpty(t, list)
	})

	t.Run("Other users cannot see or change a portfolio", func(t *testing.T) {
		p := &models.Portfolio{UserID: testUser, Name: "Private"}
		require.NoError(t, repo.Create(ctx, p, nil))

		got, err := repo.GetByID(ctx, "repo-test-intruder", p.ID, nil)
		require.NoError(t, err)
		assert.Nil(t, got)

		found, err := repo.Update(ctx, &models.Portfolio{ID: p.ID, UserID: "repo-test-intruder", Name: "Hijacked"}, nil)
		require.NoError(t, err)
		assert.False(t, found)

		found, err = repo.Delete(ctx, "repo-test-intruder", p.ID, nil)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Update inside a transaction", func(t *testing.T) {
		p := &models.Portfolio{UserID: testUser, Name: "Before"}
		require.NoError(t, repo.Create(ctx, p, nil))

		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		p.Name = "After"
		found, err := repo.Update(ctx, p, tx)
		require.NoError(t, err)
		assert.True(t, found)
		require.NoError(t, tx.Commit(ctx))

		got, err := repo.GetByID(ctx, testUser, p.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, "After", got.Name)
	})

	t.Run("Delete cascades to holdings", func(t *testing.T) {
		p := &models.Portfolio{UserID: testUser, Name: "Doomed"}
		require.NoError(t, repo.Create(ctx, p, nil))
		h := &models.Holding{PortfolioID: p.ID, Symbol: "PETR4.SA", Quantity: 10, AveragePrice: 30}
		require.NoError(t, holdingRepo.Create(ctx, h, nil))

		found, err := repo.Delete(ctx, testUser, p.ID, nil)
		require.NoError(t, err)
		assert.True(t, found)

		got, err := holdingRepo.GetBySymbol(ctx, p.ID, "PETR4.SA", nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
