package yahoo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finboard/src/config"
	"finboard/src/models"
	"finboard/src/utils"
)

// ErrNoData means the upstream answered but had no usable price for the symbol.
var ErrNoData = errors.New("no data")

// QuoteSource is a single upstream market-data provider.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*models.Quote, error)
	// FetchHistory returns an empty slice, not an error, when the range has no bars.
	FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error)
}

// NewFromConfig picks the provider named by externalClients.yahoo.provider and
// wraps it with a short-lived quote cache when cache is not nil.
func NewFromConfig(cfg *config.Config, cache utils.CacheHandlerI) QuoteSource {
	yahooCfg := cfg.ExternalClients.Yahoo

	var source QuoteSource
	switch strings.TrimSpace(strings.ToLower(yahooCfg.Provider)) {
	case "", "quote":
		source = NewQuoteClient(NewAPI(yahooCfg.Timeout))
	case "summary":
		source = NewSummaryClient(NewAPI(yahooCfg.Timeout))
	default:
		source = NewMissingSource(yahooCfg.Provider)
	}

	if cache == nil || yahooCfg.CacheTTL <= 0 {
		return source
	}
	return NewCachedSource(source, cache, yahooCfg.CacheTTL)
}

// MissingSource answers every request with ErrNoData.
type MissingSource struct {
	Name string
}

func NewMissingSource(name string) MissingSource {
	return MissingSource{Name: name}
}

func (m MissingSource) FetchQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	return nil, fmt.Errorf("%w: quote provider %q not configured", ErrNoData, m.Name)
}

func (m MissingSource) FetchHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	return []models.HistoryBar{}, nil
}
