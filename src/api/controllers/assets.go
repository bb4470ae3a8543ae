package controllers

import (
	"context"
	"net/url"

	"finboard/src/schemas"
	"finboard/src/services"
)

type AssetsControllerI interface {
	GetQuote(ctx context.Context, symbol string) (*schemas.Response, error)
	GetHistory(ctx context.Context, symbol string, query url.Values) (*schemas.Response, error)
	SearchAssets(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetMultipleQuotes(ctx context.Context, symbols []string) (*schemas.Response, error)
	GetMultipleQuotesFromQuery(ctx context.Context, query url.Values) (*schemas.Response, error)
	GetMarketOverview(ctx context.Context) (*schemas.Response, error)
}

type AssetsController struct {
	Quotes services.QuoteServiceI
}

func NewAssetsController(quotes services.QuoteServiceI) *AssetsController {
	return &AssetsController{Quotes: quotes}
}

func (c *AssetsController) GetQuote(ctx context.Context, symbol string) (*schemas.Response, error) {
	quote, err := c.Quotes.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(quote), nil
}

func (c *AssetsController) GetHistory(ctx context.Context, symbol string, query url.Values) (*schemas.Response, error) {
	period := query.Get("period")
	if period == "" {
		period = "1mo"
	}
	interval := query.Get("interval")
	if interval == "" {
		interval = "1d"
	}

	bars, err := c.Quotes.GetHistory(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	history := schemas.HistoryResponse{
		Symbol:   services.NormalizeSymbol(symbol),
		Period:   period,
		Interval: interval,
		Data:     bars,
	}
	return schemas.NewListResponse(history, len(bars), false), nil
}

func (c *AssetsController) SearchAssets(ctx context.Context, query url.Values) (*schemas.Response, error) {
	limit, err := intParam(query, "limit", 10)
	if err != nil {
		return nil, err
	}
	results, err := c.Quotes.Search(searchQuery(query), limit)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(results, len(results), false), nil
}

func (c *AssetsController) GetMultipleQuotes(ctx context.Context, symbols []string) (*schemas.Response, error) {
	results, err := c.Quotes.GetMultiple(ctx, symbols)
	if err != nil {
		return nil, err
	}
	degraded := false
	for _, result := range results {
		if result.Quote == nil {
			degraded = true
			break
		}
	}
	return schemas.NewListResponse(results, len(results), degraded), nil
}

func (c *AssetsController) GetMultipleQuotesFromQuery(ctx context.Context, query url.Values) (*schemas.Response, error) {
	return c.GetMultipleQuotes(ctx, splitSymbols(query.Get("symbols")))
}

func (c *AssetsController) GetMarketOverview(ctx context.Context) (*schemas.Response, error) {
	overview, err := c.Quotes.GetMarketOverview(ctx)
	if err != nil {
		return nil, err
	}
	response := schemas.NewResponse(overview)
	response.Degraded = overview.Degraded
	return response, nil
}
