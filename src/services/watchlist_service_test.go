package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*WatchlistService, *fakeWatchlistRepo) {
		repo := &fakeWatchlistRepo{}
		source := newFakeQuoteSource(map[string]float64{"AAPL": 110})
		source.prev["AAPL"] = 100
		return NewWatchlistService(repo, NewQuoteService(source)), repo
	}

	t.Run("Add normalizes the symbol and fills a known name", func(t *testing.T) {
		service, _ := newService()
		item, err := service.Add(ctx, "alice", " aapl ", "")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", item.Symbol)
		assert.Equal(t, "Apple Inc.", item.Name)
	})

	t.Run("Duplicate symbol conflicts", func(t *testing.T) {
		service, _ := newService()
		_, err := service.Add(ctx, "alice", "AAPL", "")
		require.NoError(t, err)
		_, err = service.Add(ctx, "alice", "aapl", "")
		assert.ErrorIs(t, err, ErrAlreadyWatched)

		_, err = service.Add(ctx, "bob", "AAPL", "")
		assert.NoError(t, err)
	})

	t.Run("List prices items and flags failures", func(t *testing.T) {
		service, _ := newService()
		_, err := service.Add(ctx, "alice", "AAPL", "")
		require.NoError(t, err)
		_, err = service.Add(ctx, "alice", "BAD", "Broken Co")
		require.NoError(t, err)

		result, err := service.List(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, result.Items, 2)
		assert.True(t, result.Degraded)
		assert.Equal(t, 110.0, result.Items[0].CurrentPrice)
		assert.InDelta(t, 10, result.Items[0].ChangePercent, 1e-9)
		assert.True(t, result.Items[1].PriceUnavailable)
	})

	t.Run("Empty watchlist", func(t *testing.T) {
		service, _ := newService()
		result, err := service.List(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
		assert.False(t, result.Degraded)
	})

	t.Run("Remove", func(t *testing.T) {
		service, repo := newService()
		_, err := service.Add(ctx, "alice", "AAPL", "")
		require.NoError(t, err)

		require.NoError(t, service.Remove(ctx, "alice", "aapl"))
		assert.Empty(t, repo.items)
		assert.ErrorIs(t, service.Remove(ctx, "alice", "AAPL"), ErrWatchlistItemNotFound)
	})
}
