package repositories_test

import (
	"context"
	"sync"
	"testing"

	"finboard/src/models"
	"finboard/src/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldingRepository(t *testing.T) {
	db := setupTestDB(t)
	portfolioRepo := repositories.NewPortfolioRepository(db)
	repo := repositories.NewHoldingRepository(db)
	ctx := context.Background()

	p := &models.Portfolio{UserID: testUser, Name: "Holdings"}
	require.NoError(t, portfolioRepo.Create(ctx, p, nil))

	t.Run("Create and ListByPortfolio", func(t *testing.T) {
		h := &models.Holding{PortfolioID: p.ID, Symbol: "AAPL", Quantity: 10, AveragePrice: 150}
		require.NoError(t, repo.Create(ctx, h, nil))
		assert.NotZero(t, h.ID)

		holdings, err := repo.ListByPortfolio(ctx, testUser, p.ID)
		require.NoError(t, err)
		require.Len(t, holdings, 1)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.InDelta(t, 150.0, holdings[0].AveragePrice, 1e-9)

		other, err := repo.ListByPortfolio(ctx, "repo-test-intruder", p.ID)
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("Duplicate symbol is rejected by the unique constraint", func(t *testing.T) {
		err := repo.Create(ctx, &models.Holding{PortfolioID: p.ID, Symbol: "AAPL", Quantity: 1, AveragePrice: 1}, nil)
		assert.Error(t, err)
	})

	t.Run("CreateIfAbsent reports an existing symbol instead of failing", func(t *testing.T) {
		created, err := repo.CreateIfAbsent(ctx, &models.Holding{PortfolioID: p.ID, Symbol: "AAPL", Quantity: 1, AveragePrice: 1}, nil)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("Concurrent CreateIfAbsent inserts exactly once", func(t *testing.T) {
		var wg sync.WaitGroup
		results := make(chan bool, 2)
		errs := make(chan error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				tx, err := db.Begin(ctx)
				if err != nil {
					errs <- err
					return
				}
				created, err := repo.CreateIfAbsent(ctx, &models.Holding{PortfolioID: p.ID, Symbol: "NVDA", Quantity: 1, AveragePrice: 1}, tx)
				if err != nil {
					_ = tx.Rollback(ctx)
					errs <- err
					return
				}
				errs <- tx.Commit(ctx)
				results <- created
			}()
		}
		wg.Wait()
		close(results)
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}
		inserted := 0
		for created := range results {
			if created {
				inserted++
			}
		}
		assert.Equal(t, 1, inserted)
	})

	t.Run("Update within a transaction and rollback", func(t *testing.T) {
		h, err := repo.GetBySymbol(ctx, p.ID, "AAPL", nil)
		require.NoError(t, err)
		require.NotNil(t, h)

		tx, err := db.Begin(ctx)
		require.NoError(t, err)
		locked, err := repo.GetBySymbol(ctx, p.ID, "AAPL", tx)
		require.NoError(t, err)
		locked.Quantity = 999
		require.NoError(t, repo.Update(ctx, locked, tx))
		require.NoError(t, tx.Rollback(ctx))

		after, err := repo.GetByID(ctx, testUser, p.ID, h.ID, nil)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, after.Quantity, 1e-9)
	})

	t.Run("Delete", func(t *testing.T) {
		h, err := repo.GetBySymbol(ctx, p.ID, "AAPL", nil)
		require.NoError(t, err)

		found, err := repo.Delete(ctx, "repo-test-intruder", p.ID, h.ID, nil)
		require.NoError(t, err)
		assert.False(t, found)

		found, err = repo.Delete(ctx, testUser, p.ID, h.ID, nil)
		require.NoError(t, err)
		assert.True(t, found)
	})
}
