package yahoo

import (
	"context"
	"fmt"

	"finboard/src/models"

	yfgo "github.com/komsit37/yf-go"
)

var priceModules = []yfgo.QuoteSummaryModule{yfgo.ModulePrice}

// SummaryClient reads snapshots from the quote summary price module and
// history from the v8 chart.
type SummaryClient struct {
	api API
}

func NewSummaryClient(api API) *SummaryClient {
	return &SummaryClient{api: api}
}

func (c *SummaryClient) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	res, err := c.api.QuoteSummaryTyped(ctx, symbol, priceModules)
	if err != nil {
		if isMissing(err) {
			return nil, fmt.Errorf("%w for %s", ErrNoData, symbol)
		}
		return nil, err
	}
	price := res.Price
	if price == nil || price.RegularMarketPrice.Raw == nil || *price.RegularMarketPrice.Raw <= 0 {
		return nil, fmt.Errorf("%w: no price for %s", ErrNoData, symbol)
	}

	quote := &models.Quote{
		Symbol:        symbol,
		Name:          firstNonEmpty(price.LongName, price.ShortName, symbol),
		CurrentPrice:  *price.RegularMarketPrice.Raw,
		PreviousClose: raw(price.RegularMarketPreviousClose),
		Volume:        int64(raw(price.RegularMarketVolume)),
		Currency:      price.Currency,
		MarketCap:     raw(price.MarketCap),
		PERatio:       raw(price.TrailingPE),
	}
	quote.ComputeChange()
	return quote, nil
}

func (c *SummaryClient) FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	return fetchHistory(ctx, c.api, symbol, period, interval)
}

func raw(n yfgo.YNum) float64 {
	if n.Raw == nil {
		return 0
	}
	return *n.Raw
}
