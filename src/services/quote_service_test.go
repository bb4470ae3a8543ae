package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteService(t *testing.T) {
	ctx := context.Background()

	t.Run("GetQuote upper-cases the symbol and derives the change", func(t *testing.T) {
		source := newFakeQuoteSource(map[string]float64{"AAPL": 110})
		source.prev["AAPL"] = 100
		service := NewQuoteService(source)

		quote, err := service.GetQuote(ctx, " aapl ")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.InDelta(t, 10, quote.Change, 1e-9)
		assert.InDelta(t, 10, quote.ChangePercent, 1e-9)
	})

	t.Run("GetQuote reports zero change without a previous close", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(map[string]float64{"MSFT": 300}))

		quote, err := service.GetQuote(ctx, "MSFT")
		require.NoError(t, err)
		assert.Zero(t, quote.Change)
		assert.Zero(t, quote.ChangePercent)
	})

	t.Run("GetQuote wraps upstream failures as data unavailable", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(map[string]float64{}))

		_, err := service.GetQuote(ctx, "BAD")
		assert.ErrorIs(t, err, ErrDataUnavailable)
	})

	t.Run("GetMultiple isolates per-symbol failures", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(map[string]float64{"AAPL": 150}))

		results, err := service.GetMultiple(ctx, []string{"AAPL", "BAD"})
		require.NoError(t, err)
		require.Len(t, results, 2)
		require.NotNil(t, results["AAPL"].Quote)
		assert.Equal(t, 150.0, results["AAPL"].Quote.CurrentPrice)
		assert.Nil(t, results["BAD"].Quote)
		assert.NotEmpty(t, results["BAD"].Error)
	})

	t.Run("GetMultiple fetches duplicate symbols once", func(t *testing.T) {
		source := newFakeQuoteSource(map[string]float64{"AAPL": 150})
		service := NewQuoteService(source)

		results, err := service.GetMultiple(ctx, []string{"aapl", "AAPL"})
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, 1, source.calls["AAPL"])
	})

	t.Run("GetMultiple stops at cancellation", func(t *testing.T) {
		source := newFakeQuoteSource(map[string]float64{"AAPL": 150, "MSFT": 50, "NVDA": 900})
		service := NewQuoteService(source)
		cancelCtx, cancel := context.WithCancel(ctx)
		source.afterFetch = cancel

		results, err := service.GetMultiple(cancelCtx, []string{"AAPL", "MSFT", "NVDA"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, results)
		assert.Equal(t, 1, source.totalCalls())
	})

	t.Run("GetMultiple rejects an empty batch", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(nil))

		_, err := service.GetMultiple(ctx, nil)
		var validationErr *ValidationError
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("GetHistory validates period and interval", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(map[string]float64{"AAPL": 1}))

		_, err := service.GetHistory(ctx, "AAPL", "7w", "1d")
		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "period", validationErr.Field)

		_, err = service.GetHistory(ctx, "AAPL", "1mo", "7m")
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, "interval", validationErr.Field)

		bars, err := service.GetHistory(ctx, "AAPL", "1mo", "1d")
		require.NoError(t, err)
		assert.Len(t, bars, 1)
	})

	t.Run("Search matches symbol or name and honours the limit", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(nil))

		results, err := service.Search("apple", 10)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "AAPL", results[0].Symbol)

		results, err = service.Search("a", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)

		_, err = service.Search("a", 51)
		assert.Error(t, err)
	})

	t.Run("GetMarketOverview stops at cancellation", func(t *testing.T) {
		source := newFakeQuoteSource(map[string]float64{"^GSPC": 5000})
		service := NewQuoteService(source)
		cancelCtx, cancel := context.WithCancel(ctx)
		source.afterFetch = cancel

		overview, err := service.GetMarketOverview(cancelCtx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, overview)
		assert.Equal(t, 1, source.totalCalls())
	})

	t.Run("GetMarketOverview flags failed indices", func(t *testing.T) {
		service := NewQuoteService(newFakeQuoteSource(map[string]float64{"^GSPC": 5000}))

		overview, err := service.GetMarketOverview(ctx)
		require.NoError(t, err)
		require.Len(t, overview.Indices, len(marketIndices))
		assert.True(t, overview.Degraded)
		for _, index := range overview.Indices {
			if index.Symbol == "SP500" {
				assert.False(t, index.Unavailable)
				assert.Equal(t, 5000.0, index.Price)
			} else {
				assert.True(t, index.Unavailable)
				assert.Zero(t, index.Price)
			}
		}
	})
}
