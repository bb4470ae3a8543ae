package handlers

import (
	"context"
	"net/http"
	"time"

	"finboard/src/api/controllers"
	"finboard/src/schemas"

	"github.com/go-chi/chi/v5"
)

// portfolioRequest resolves the caller and the portfolio id path parameter.
func portfolioRequest(r *http.Request) (string, int64, error) {
	user, err := userID(r)
	if err != nil {
		return "", 0, err
	}
	id, err := controllers.ParseID(chi.URLParam(r, "id"), "portfolio id")
	if err != nil {
		return "", 0, err
	}
	return user, id, nil
}

func (h *Handler) ListPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := userID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := h.Controller.ListPortfolios(ctx, user)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := userID(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.CreatePortfolioRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.CreatePortfolio(ctx, user, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusCreated)
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := h.Controller.GetPortfolio(ctx, user, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.UpdatePortfolioRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.UpdatePortfolio(ctx, user, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := h.Controller.DeletePortfolio(ctx, user, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

// Valuation endpoints price every holding sequentially, so they get a longer deadline.
const valuationTimeout = 60 * time.Second

func (h *Handler) servePortfolio(w http.ResponseWriter, r *http.Request, timeout time.Duration, call func(context.Context, string, int64) (*schemas.Response, error)) {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	response, err := call(ctx, user, id)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) GetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	h.servePortfolio(w, r, valuationTimeout, h.Controller.GetPortfolioSummary)
}

func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	h.servePortfolio(w, r, valuationTimeout, h.Controller.ListHoldings)
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	h.servePortfolio(w, r, valuationTimeout, h.Controller.GetPerformance)
}

func (h *Handler) GetAllocation(w http.ResponseWriter, r *http.Request) {
	h.servePortfolio(w, r, valuationTimeout, h.Controller.GetAllocation)
}

func (h *Handler) SuggestRebalance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), valuationTimeout)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.RebalanceRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.SuggestRebalance(ctx, user, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) AddHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.AddHoldingRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.AddHolding(ctx, user, id, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusCreated)
}

func (h *Handler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	holdingID, err := controllers.ParseID(chi.URLParam(r, "holdingID"), "holding id")
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	req := new(schemas.UpdateHoldingRequest)
	if err := decode(w, r, req); err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.UpdateHolding(ctx, user, id, holdingID, req)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}

func (h *Handler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, id, err := portfolioRequest(r)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	holdingID, err := controllers.ParseID(chi.URLParam(r, "holdingID"), "holding id")
	if err != nil {
		h.HandleErrors(w, err)
		return
	}

	response, err := h.Controller.RemoveHolding(ctx, user, id, holdingID)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	h.respond(w, r, response, http.StatusOK)
}
