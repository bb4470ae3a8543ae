package handlers

import (
	"context"
	"net/http"
	"time"

	"finboard/src/schemas"

	"github.com/go-chi/chi/v5"
)

const refreshTimeout = 60 * time.Second

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	statuses := h.Controller.Status()
	count := len(statuses)
	h.respond(w, r, schemas.NewListResponse(statuses, count, false), http.StatusOK)
}

func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	if err := h.Controller.RunAll(ctx); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewResponse(map[string]string{"status": "refreshed"}), http.StatusOK)
}

func (h *Handler) RefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
	defer cancel()

	name := chi.URLParam(r, "job")
	if err := h.Controller.RunNow(ctx, name); err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, schemas.NewResponse(map[string]string{"status": "refreshed", "job": name}), http.StatusOK)
}
