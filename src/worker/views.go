package worker

import (
	"net/http"
	"time"

	"finboard/src/api/handlers"
	"finboard/src/config"
	"finboard/src/worker/controllers"
	workerhandlers "finboard/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	Router  *chi.Mux
	Handler *workerhandlers.Handler
}

func NewServer(controller *controllers.Controller) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: workerhandlers.NewHandler(controller),
	}
	server.Router.Use(middleware.RequestID)
	server.Router.Use(middleware.Recoverer)
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)
	s.Router.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", s.Handler.ListJobs)
		r.Post("/refresh", s.Handler.RefreshAll)
		r.Post("/{job}/refresh", s.Handler.RefreshJob)
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
