package handlers

import (
	"context"
	"net/http"
	"time"

	"finboard/src/schemas"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	user, err := userID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := h.Controller.GetWatchlist(ctx, user)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := userID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.AddWatchlistRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.AddToWatchlist(ctx, user, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusCreated)
}

func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := userID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := h.Controller.RemoveFromWatchlist(ctx, user, chi.URLParam(r, "symbol"))
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}
