package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Feed fan-out has its own overall deadline; this only bounds the request.
const newsTimeout = 15 * time.Second

func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), newsTimeout)
	defer cancel()

	response, err := h.Controller.GetNews(ctx, r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetAssetNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), newsTimeout)
	defer cancel()

	response, err := h.Controller.GetAssetNews(ctx, chi.URLParam(r, "symbol"), r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) SearchNews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), newsTimeout)
	defer cancel()

	response, err := h.Controller.SearchNews(ctx, r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) ListNewsCategories(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.ListNewsCategories(), http.StatusOK)
}

func (h *Handler) ListNewsSources(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.ListNewsSources(), http.StatusOK)
}
