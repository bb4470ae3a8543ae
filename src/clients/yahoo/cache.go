package yahoo

import (
	"context"
	"time"

	"finboard/src/models"
	"finboard/src/utils"
)

// CachedSource decorates a QuoteSource with a TTL cache for successful quotes.
// History is passed through.
type CachedSource struct {
	next  QuoteSource
	cache utils.CacheHandlerI
	ttl   time.Duration
}

func NewCachedSource(next QuoteSource, cache utils.CacheHandlerI, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: cache, ttl: ttl}
}

func (c *CachedSource) key(symbol string) string {
	return "quote:" + symbol
}

func (c *CachedSource) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var cached models.Quote
	if err := c.cache.Get(c.key(symbol), &cached); err == nil {
		return &cached, nil
	}

	quote, err := c.next.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(c.key(symbol), quote, c.ttl); err != nil {
		utils.LoggerFromContext(ctx).WithError(err).WithField("symbol", symbol).Warn("Failed to cache quote")
	}
	return quote, nil
}

func (c *CachedSource) FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	return c.next.FetchHistory(ctx, symbol, period, interval)
}
