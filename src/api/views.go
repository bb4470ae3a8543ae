package api

import (
	"net/http"
	"time"

	"finboard/src/api/controllers"
	"finboard/src/api/handlers"
	"finboard/src/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

type Server struct {
	Router    *chi.Mux
	Handler   *handlers.Handler
	TokenAuth *jwtauth.JWTAuth
}

func NewServer(cfg *config.Config, controller controllers.IController, logger *logrus.Logger) *Server {
	server := &Server{
		Router:    chi.NewRouter(),
		Handler:   handlers.NewHandler(controller),
		TokenAuth: jwtauth.New("HS256", []byte(cfg.Auth.JWTSecret), nil),
	}
	server.Router.Use(middleware.RequestID)
	server.Router.Use(middleware.RealIP)
	server.Router.Use(RequestLogger(logger))
	server.Router.Use(middleware.Recoverer)
	server.Router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.Service.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)

	s.Router.Route("/api/assets", func(r chi.Router) {
		r.Get("/search", s.Handler.SearchAssets)
		r.Get("/market-overview", s.Handler.GetMarketOverview)
		r.Get("/quotes", s.Handler.GetMultipleQuotes)
		r.Post("/quotes", s.Handler.GetMultipleQuotes)
		r.Get("/{symbol}/quote", s.Handler.GetQuote)
		r.Get("/{symbol}/history", s.Handler.GetHistory)
		r.Get("/{symbol}/news", s.Handler.GetAssetNews)
	})

	s.Router.Route("/api/news", func(r chi.Router) {
		r.Get("/", s.Handler.GetNews)
		r.Get("/search", s.Handler.SearchNews)
		r.Get("/categories", s.Handler.ListNewsCategories)
		r.Get("/sources", s.Handler.ListNewsSources)
		r.Get("/asset/{symbol}", s.Handler.GetAssetNews)
	})

	s.Router.Route("/api/calendar", func(r chi.Router) {
		r.Get("/events", s.Handler.GetEvents)
		r.Get("/today", s.Handler.GetTodayEvents)
		r.Get("/week", s.Handler.GetWeekEvents)
		r.Get("/upcoming", s.Handler.GetUpcomingEvents)
		r.Get("/search", s.Handler.SearchEvents)
		r.Get("/summary", s.Handler.GetCalendarSummary)
		r.Get("/countries", s.Handler.ListCountries)
		r.Get("/importance-levels", s.Handler.ListImportanceLevels)
	})

	s.Router.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(s.TokenAuth))
		r.Use(Authenticator)

		r.Route("/api/portfolios", func(r chi.Router) {
			r.Get("/", s.Handler.ListPortfolios)
			r.Post("/", s.Handler.CreatePortfolio)
			r.Get("/{id}", s.Handler.GetPortfolio)
			r.Put("/{id}", s.Handler.UpdatePortfolio)
			r.Delete("/{id}", s.Handler.DeletePortfolio)
			r.Get("/{id}/summary", s.Handler.GetPortfolioSummary)
			r.Get("/{id}/performance", s.Handler.GetPerformance)
			r.Get("/{id}/allocation", s.Handler.GetAllocation)
			r.Post("/{id}/rebalance", s.Handler.SuggestRebalance)
			r.Get("/{id}/holdings", s.Handler.ListHoldings)
			r.Post("/{id}/holdings", s.Handler.AddHolding)
			r.Put("/{id}/holdings/{holdingID}", s.Handler.UpdateHolding)
			r.Delete("/{id}/holdings/{holdingID}", s.Handler.RemoveHolding)
		})

		r.Route("/api/watchlist", func(r chi.Router) {
			r.Get("/", s.Handler.GetWatchlist)
			r.Post("/", s.Handler.AddToWatchlist)
			r.Delete("/{symbol}", s.Handler.RemoveFromWatchlist)
		})
	})
}

func NewHTTPServer(cfg *config.Config, server *Server) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Service.Port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		Handler:      server,
	}
	return httpServer
}
