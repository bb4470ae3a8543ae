package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finboard/src/clients/yahoo"
	"finboard/src/models"
	"finboard/src/utils"
)

const maxBatchSymbols = 50

var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true, "1y": true,
	"2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
}

var validIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true, "30m": true, "60m": true, "90m": true,
	"1h": true, "1d": true, "5d": true, "1wk": true, "1mo": true, "3mo": true,
}

type SymbolInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

var popularSymbols = []SymbolInfo{
	{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Exchange: "NASDAQ"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Exchange: "NASDAQ"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Exchange: "NASDAQ"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Exchange: "NASDAQ"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Exchange: "NASDAQ"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Exchange: "NASDAQ"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Exchange: "NASDAQ"},
	{Symbol: "BABA", Name: "Alibaba Group Holding Limited", Exchange: "NYSE"},
	{Symbol: "V", Name: "Visa Inc.", Exchange: "NYSE"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Exchange: "NYSE"},
	{Symbol: "JNJ", Name: "Johnson & Johnson", Exchange: "NYSE"},
	{Symbol: "WMT", Name: "Walmart Inc.", Exchange: "NYSE"},
	{Symbol: "PG", Name: "Procter & Gamble Company", Exchange: "NYSE"},
	{Symbol: "UNH", Name: "UnitedHealth Group Incorporated", Exchange: "NYSE"},
	{Symbol: "HD", Name: "Home Depot Inc.", Exchange: "NYSE"},
	{Symbol: "MA", Name: "Mastercard Incorporated", Exchange: "NYSE"},
	{Symbol: "BAC", Name: "Bank of America Corporation", Exchange: "NYSE"},
	{Symbol: "XOM", Name: "Exxon Mobil Corporation", Exchange: "NYSE"},
	{Symbol: "DIS", Name: "Walt Disney Company", Exchange: "NYSE"},
	{Symbol: "PETR4.SA", Name: "Petrobras PN", Exchange: "B3"},
	{Symbol: "VALE3.SA", Name: "Vale ON", Exchange: "B3"},
	{Symbol: "ITUB4.SA", Name: "Itau Unibanco PN", Exchange: "B3"},
	{Symbol: "BBDC4.SA", Name: "Bradesco PN", Exchange: "B3"},
	{Symbol: "WEGE3.SA", Name: "WEG ON", Exchange: "B3"},
}

type marketIndex struct {
	Symbol        string
	DisplaySymbol string
	Name          string
}

var marketIndices = []marketIndex{
	{Symbol: "^BVSP", DisplaySymbol: "IBOVESPA", Name: "Ibovespa"},
	{Symbol: "IFIX.SA", DisplaySymbol: "IFIX", Name: "IFIX"},
	{Symbol: "SMLL11.SA", DisplaySymbol: "SMLL11", Name: "Small Cap"},
	{Symbol: "IDIV11.SA", DisplaySymbol: "IDIV11", Name: "Dividendos"},
	{Symbol: "^GSPC", DisplaySymbol: "SP500", Name: "S&P 500"},
	{Symbol: "^IXIC", DisplaySymbol: "NASDAQ", Name: "Nasdaq Composite"},
}

// QuoteResult is one entry of a batch lookup: either a quote or an error message.
type QuoteResult struct {
	Quote *models.Quote `json:"quote,omitempty"`
	Error string        `json:"error,omitempty"`
}

type IndexQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Unavailable   bool    `json:"unavailable,omitempty"`
}

type MarketOverview struct {
	Indices   []IndexQuote `json:"indices"`
	UpdatedAt time.Time    `json:"updated_at"`
	Degraded  bool         `json:"degraded"`
}

type QuoteServiceI interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error)
	Search(query string, limit int) ([]SymbolInfo, error)
	GetMultiple(ctx context.Context, symbols []string) (map[string]QuoteResult, error)
	GetMarketOverview(ctx context.Context) (*MarketOverview, error)
}

type QuoteService struct {
	source yahoo.QuoteSource
	now    func() time.Time
}

func NewQuoteService(source yahoo.QuoteSource) *QuoteService {
	return &QuoteService{source: source, now: time.Now}
}

// NormalizeSymbol upper-cases and trims a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func (s *QuoteService) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, newValidationError("symbol", "is required")
	}

	quote, err := s.source.FetchQuote(ctx, symbol)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		utils.LoggerFromContext(ctx).WithError(err).WithField("symbol", symbol).Warn("Quote fetch failed")
		return nil, fmt.Errorf("%w: quote for %s: %v", ErrDataUnavailable, symbol, err)
	}

	result := *quote
	result.Symbol = symbol
	result.ComputeChange()
	return &result, nil
}

func (s *QuoteService) GetHistory(ctx context.Context, symbol, period, interval string) ([]models.HistoryBar, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, newValidationError("symbol", "is required")
	}
	if !validPeriods[period] {
		return nil, newValidationError("period", "unsupported value %q", period)
	}
	if !validIntervals[interval] {
		return nil, newValidationError("interval", "unsupported value %q", interval)
	}

	bars, err := s.source.FetchHistory(ctx, symbol, period, interval)
	if errors.Is(err, yahoo.ErrNoData) {
		return []models.HistoryBar{}, nil
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		utils.LoggerFromContext(ctx).WithError(err).WithField("symbol", symbol).Warn("History fetch failed")
		return nil, fmt.Errorf("%w: history for %s: %v", ErrDataUnavailable, symbol, err)
	}
	if bars == nil {
		bars = []models.HistoryBar{}
	}
	return bars, nil
}

// Search matches query against the symbol and name of well-known tickers.
func (s *QuoteService) Search(query string, limit int) ([]SymbolInfo, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, newValidationError("query", "is required")
	}
	if err := validateLimit(limit, 1, 50); err != nil {
		return nil, err
	}

	results := []SymbolInfo{}
	for _, info := range popularSymbols {
		if strings.Contains(strings.ToLower(info.Symbol), query) || strings.Contains(strings.ToLower(info.Name), query) {
			results = append(results, info)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// GetMultiple fetches each symbol in turn; one failure never aborts the batch.
// Cancellation does, and is returned as ctx.Err().
func (s *QuoteService) GetMultiple(ctx context.Context, symbols []string) (map[string]QuoteResult, error) {
	if len(symbols) == 0 {
		return nil, newValidationError("symbols", "at least one symbol is required")
	}
	if len(symbols) > maxBatchSymbols {
		return nil, newValidationError("symbols", "at most %d symbols per request", maxBatchSymbols)
	}

	results := make(map[string]QuoteResult, len(symbols))
	for _, raw := range symbols {
		symbol := NormalizeSymbol(raw)
		if symbol == "" {
			continue
		}
		if _, done := results[symbol]; done {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		quote, err := s.GetQuote(ctx, symbol)
		if err != nil {
			results[symbol] = QuoteResult{Error: err.Error()}
			continue
		}
		results[symbol] = QuoteResult{Quote: quote}
	}
	return results, nil
}

// GetMarketOverview prices the index table. Indices that fail are zeroed and flagged.
func (s *QuoteService) GetMarketOverview(ctx context.Context) (*MarketOverview, error) {
	overview := &MarketOverview{
		Indices:   make([]IndexQuote, 0, len(marketIndices)),
		UpdatedAt: s.now().UTC(),
	}

	for _, index := range marketIndices {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entry := IndexQuote{Symbol: index.DisplaySymbol, Name: index.Name}
		quote, err := s.GetQuote(ctx, index.Symbol)
		if err != nil {
			entry.Unavailable = true
			overview.Degraded = true
		} else {
			entry.Price = quote.CurrentPrice
			entry.Change = quote.Change
			entry.ChangePercent = quote.ChangePercent
		}
		overview.Indices = append(overview.Indices, entry)
	}
	return overview, nil
}
