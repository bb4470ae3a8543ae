package services

import (
	"context"
	"strings"

	"finboard/src/models"
	"finboard/src/repositories"
)

type WatchlistEntry struct {
	models.WatchlistItem
	CurrentPrice     float64 `json:"current_price"`
	Change           float64 `json:"change"`
	ChangePercent    float64 `json:"change_percent"`
	PriceUnavailable bool    `json:"price_unavailable,omitempty"`
}

type WatchlistResult struct {
	Items    []WatchlistEntry `json:"items"`
	Degraded bool             `json:"degraded"`
}

type WatchlistServiceI interface {
	List(ctx context.Context, userID string) (*WatchlistResult, error)
	Add(ctx context.Context, userID, symbol, name string) (*models.WatchlistItem, error)
	Remove(ctx context.Context, userID, symbol string) error
}

type WatchlistService struct {
	items  repositories.WatchlistRepository
	quotes QuoteServiceI
}

func NewWatchlistService(items repositories.WatchlistRepository, quotes QuoteServiceI) *WatchlistService {
	return &WatchlistService{items: items, quotes: quotes}
}

// List prices every watched symbol through the batch quote path.
func (s *WatchlistService) List(ctx context.Context, userID string) (*WatchlistResult, error) {
	items, err := s.items.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &WatchlistResult{Items: make([]WatchlistEntry, 0, len(items))}
	quotes := make(map[string]QuoteResult, len(items))
	for start := 0; start < len(items); start += maxBatchSymbols {
		end := start + maxBatchSymbols
		if end > len(items) {
			end = len(items)
		}
		symbols := make([]string, 0, end-start)
		for _, item := range items[start:end] {
			symbols = append(symbols, item.Symbol)
		}
		batch, err := s.quotes.GetMultiple(ctx, symbols)
		if err != nil {
			return nil, err
		}
		for symbol, quote := range batch {
			quotes[symbol] = quote
		}
	}

	for _, item := range items {
		entry := WatchlistEntry{WatchlistItem: item}
		if quote := quotes[item.Symbol]; quote.Quote != nil {
			entry.CurrentPrice = quote.Quote.CurrentPrice
			entry.Change = quote.Quote.Change
			entry.ChangePercent = quote.Quote.ChangePercent
		} else {
			entry.PriceUnavailable = true
			result.Degraded = true
		}
		result.Items = append(result.Items, entry)
	}
	return result, nil
}

func (s *WatchlistService) Add(ctx context.Context, userID, symbol, name string) (*models.WatchlistItem, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, newValidationError("symbol", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = knownSymbolName(symbol)
	}

	item := &models.WatchlistItem{UserID: userID, Symbol: symbol, Name: name}
	created, err := s.items.Create(ctx, item, nil)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyWatched
	}
	return item, nil
}

func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return newValidationError("symbol", "is required")
	}
	found, err := s.items.Delete(ctx, userID, symbol, nil)
	if err != nil {
		return err
	}
	if !found {
		return ErrWatchlistItemNotFound
	}
	return nil
}

// knownSymbolName falls back to the symbol itself for tickers outside the popular table.
func knownSymbolName(symbol string) string {
	for _, info := range popularSymbols {
		if info.Symbol == symbol {
			return info.Name
		}
	}
	return symbol
}
