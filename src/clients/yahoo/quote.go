package yahoo

import (
	"context"
	"fmt"
	"strings"

	"finboard/src/models"
)

// QuoteClient reads snapshots from the v7 quote endpoint and history from the v8 chart.
type QuoteClient struct {
	api API
}

func NewQuoteClient(api API) *QuoteClient {
	return &QuoteClient{api: api}
}

func (c *QuoteClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	results, err := c.api.Quote(ctx, []string{symbol})
	if err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
		}
		return nil, err
	}

	for _, q := range results {
		if !strings.EqualFold(q.Symbol, symbol) {
			continue
		}
		if q.RegularMarketPrice == nil || *q.RegularMarketPrice <= 0 {
			break
		}
		quote := &models.Quote{
			Symbol:       symbol,
			Name:         firstNonEmpty(q.LongName, q.ShortName, symbol),
			CurrentPrice: *q.RegularMarketPrice,
			Currency:     q.Currency,
		}
		if q.RegularMarketPreviousClose != nil {
			quote.PreviousClose = *q.RegularMarketPreviousClose
		}
		if q.RegularMarketVolume != nil {
			quote.Volume = *q.RegularMarketVolume
		}
		if q.MarketCap != nil {
			quote.MarketCap = float64(*q.MarketCap)
		}
		if q.TrailingPE != nil {
			quote.PERatio = *q.TrailingPE
		}
		quote.ComputeChange()
		return quote, nil
	}
	return nil, fmt.Errorf("%w: no price for %s", ErrNoData, symbol)
}

func (c *QuoteClient) FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	return fetchHistory(ctx, c.api, symbol, period, interval)
}
