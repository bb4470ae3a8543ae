package utils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError carries the status an API error is answered with.
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"message"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) error {
	return &HTTPError{Code: code, Message: message}
}

func BadRequest(message string) error { return NewHTTPError(http.StatusBadRequest, message) }

func Unauthorized(message string) error { return NewHTTPError(http.StatusUnauthorized, message) }

func NotFound(message string) error { return NewHTTPError(http.StatusNotFound, message) }

func Conflict(message string) error { return NewHTTPError(http.StatusConflict, message) }

func InternalServerError(message string) error {
	return NewHTTPError(http.StatusInternalServerError, message)
}

// BadGateway reports an upstream data source failure.
func BadGateway(message string) error { return NewHTTPError(http.StatusBadGateway, message) }

func GatewayTimeout(message string) error { return NewHTTPError(http.StatusGatewayTimeout, message) }

// StatusCode returns the status carried by err, or 500 when err is not an HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// WriteError answers with the {"success": false, "error": ...} envelope.
// Errors that are not an HTTPError are reported without their message.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   httpErr.Message,
	})
}
