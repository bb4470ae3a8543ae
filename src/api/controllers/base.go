package controllers

import (
	"finboard/src/services"
)

type IController interface {
	AssetsControllerI
	NewsControllerI
	CalendarControllerI
	PortfoliosControllerI
	WatchlistControllerI
}

type Controller struct {
	*AssetsController
	*NewsController
	*CalendarController
	*PortfoliosController
	*WatchlistController
}

func NewController(
	quotes services.QuoteServiceI,
	news services.NewsServiceI,
	calendar services.CalendarServiceI,
	portfolios services.PortfolioServiceI,
	watchlist services.WatchlistServiceI,
) *Controller {
	return &Controller{
		AssetsController:     NewAssetsController(quotes),
		NewsController:       NewNewsController(news),
		CalendarController:   NewCalendarController(calendar),
		PortfoliosController: NewPortfoliosController(portfolios),
		WatchlistController:  NewWatchlistController(watchlist),
	}
}
