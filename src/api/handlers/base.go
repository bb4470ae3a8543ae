package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"finboard/src/api/controllers"
	"finboard/src/services"
	"finboard/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Controller controllers.IController
}

func NewHandler(controller controllers.IController) *Handler {
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

// HandleErrors maps domain errors to HTTP statuses and writes the error envelope.
func (h *Handler) HandleErrors(w http.ResponseWriter, err error) {
	var validationErr *services.ValidationError
	var httpErr *utils.HTTPError
	cause := err

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		err = utils.GatewayTimeout("request timed out")
	case errors.As(err, &validationErr):
		err = utils.BadRequest(validationErr.Error())
	case errors.Is(err, services.ErrPortfolioNotFound),
		errors.Is(err, services.ErrHoldingNotFound),
		errors.Is(err, services.ErrWatchlistItemNotFound):
		err = utils.NotFound(err.Error())
	case errors.Is(err, services.ErrAlreadyWatched):
		err = utils.Conflict(err.Error())
	case errors.Is(err, services.ErrDataUnavailable):
		err = utils.BadGateway(err.Error())
	case errors.As(err, &httpErr):
	default:
		err = utils.InternalServerError("internal server error")
	}
	if utils.StatusCode(err) >= http.StatusInternalServerError {
		logrus.WithError(cause).Error("Request failed")
	}
	utils.WriteError(w, err)
}

// decode reads a JSON body into dst, rejecting unknown fields.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return utils.BadRequest(fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

// userID reads the subject of the verified token.
func userID(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", utils.Unauthorized("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", utils.Unauthorized("token has no subject")
	}
	return sub, nil
}
