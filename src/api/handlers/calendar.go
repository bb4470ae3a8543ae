package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"finboard/src/schemas"
)

const calendarTimeout = 30 * time.Second

// serveQuery runs a query-driven controller call under the calendar deadline.
func (h *Handler) serveQuery(w http.ResponseWriter, r *http.Request, call func(context.Context, url.Values) (*schemas.Response, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), calendarTimeout)
	defer cancel()

	response, err := call(ctx, r.URL.Query())
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	h.serveQuery(w, r, h.Controller.GetEvents)
}

func (h *Handler) GetTodayEvents(w http.ResponseWriter, r *http.Request) {
	h.serveQuery(w, r, h.Controller.GetTodayEvents)
}

func (h *Handler) GetWeekEvents(w http.ResponseWriter, r *http.Request) {
	h.serveQuery(w, r, h.Controller.GetWeekEvents)
}

func (h *Handler) GetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	h.serveQuery(w, r, h.Controller.GetUpcomingEvents)
}

func (h *Handler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	h.serveQuery(w, r, h.Controller.SearchEvents)
}

func (h *Handler) GetCalendarSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), calendarTimeout)
	defer cancel()

	response, err := h.Controller.GetCalendarSummary(ctx)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.ListCountries(), http.StatusOK)
}

func (h *Handler) ListImportanceLevels(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.Controller.ListImportanceLevels(), http.StatusOK)
}
