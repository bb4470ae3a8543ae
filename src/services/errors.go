package services

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means an upstream source failed for a single-item lookup.
	ErrDataUnavailable       = errors.New("data unavailable")
	ErrPortfolioNotFound     = errors.New("portfolio not found")
	ErrHoldingNotFound       = errors.New("holding not found")
	ErrWatchlistItemNotFound = errors.New("symbol not in watchlist")
	ErrAlreadyWatched        = errors.New("symbol already in watchlist")
)

// ValidationError reports malformed caller input. It is never corrected silently.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func validateLimit(limit, min, max int) error {
	if limit < min || limit > max {
		return newValidationError("limit", "must be between %d and %d", min, max)
	}
	return nil
}
