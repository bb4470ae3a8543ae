package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"finboard/src/utils"
	"finboard/src/worker/controllers"
)

type Handler struct {
	Controller *controllers.Controller
}

func NewHandler(controller *controllers.Controller) *Handler {
	return &Handler{Controller: controller}
}

func (h *Handler) respond(w http.ResponseWriter, _ *http.Request, data interface{}, status int) {
	res, err := json.Marshal(data)
	if err != nil {
		h.HandleErrors(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write(res)
}

func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var httpErr *utils.HTTPError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		utils.WriteError(w, utils.GatewayTimeout("request timed out"))
	case errors.As(err, &httpErr):
		utils.WriteError(w, httpErr)
	default:
		utils.WriteError(w, utils.InternalServerError("internal server error"))
	}
}
