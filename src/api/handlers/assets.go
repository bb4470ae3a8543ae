package handlers

import (
	"context"
	"net/http"
	"time"

	"finboard/src/schemas"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	response, err := h.Controller.GetQuote(ctx, chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	response, err := h.Controller.GetHistory(ctx, chi.URLParam(r, "symbol"), r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	response, err := h.Controller.SearchAssets(r.Context(), r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetMultipleQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	var (
		response *schemas.Response
		err      error
	)
	if r.Method == http.MethodPost {
		req := new(schemas.MultipleQuotesRequest)
		if err := decode(w, r, req); err != nil {
			h.HandleErrors(w, err)
			return
		}
		response, err = h.Controller.GetMultipleQuotes(ctx, req.Symbols)
	} else {
		response, err = h.Controller.GetMultipleQuotesFromQuery(ctx, r.URL.Query())
	}
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetMarketOverview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	response, err := h.Controller.GetMarketOverview(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}
