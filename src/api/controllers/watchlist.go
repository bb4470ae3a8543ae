package controllers

import (
	"context"

	"finboard/src/schemas"
	"finboard/src/services"
)

type WatchlistControllerI interface {
	GetWatchlist(ctx context.Context, userID string) (*schemas.Response, error)
	AddToWatchlist(ctx context.Context, userID string, req *schemas.AddWatchlistRequest) (*schemas.Response, error)
	RemoveFromWatchlist(ctx context.Context, userID, symbol string) (*schemas.Response, error)
}

type WatchlistController struct {
	Watchlist services.WatchlistServiceI
}

func NewWatchlistController(watchlist services.WatchlistServiceI) *WatchlistController {
	return &WatchlistController{Watchlist: watchlist}
}

func (c *WatchlistController) GetWatchlist(ctx context.Context, userID string) (*schemas.Response, error) {
	result, err := c.Watchlist.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return schemas.NewListResponse(result.Items, len(result.Items), result.Degraded), nil
}

func (c *WatchlistController) AddToWatchlist(ctx context.Context, userID string, req *schemas.AddWatchlistRequest) (*schemas.Response, error) {
	item, err := c.Watchlist.Add(ctx, userID, req.Symbol, req.Name)
	if err != nil {
		return nil, err
	}
	return schemas.NewResponse(item), nil
}

func (c *WatchlistController) RemoveFromWatchlist(ctx context.Context, userID, symbol string) (*schemas.Response, error) {
	if err := c.Watchlist.Remove(ctx, userID, symbol); err != nil {
		return nil, err
	}
	return schemas.NewResponse(map[string]string{"removed": services.NormalizeSymbol(symbol)}), nil
}
