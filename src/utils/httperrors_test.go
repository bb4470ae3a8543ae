package utils_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finboard/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	t.Run("HTTPError keeps its status and message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		utils.WriteError(rec, utils.NotFound("portfolio not found"))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "portfolio not found", body["error"])
	})

	t.Run("Wrapped HTTPError is unwrapped", func(t *testing.T) {
		rec := httptest.NewRecorder()
		utils.WriteError(rec, fmt.Errorf("lookup: %w", utils.BadGateway("quote source down")))
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Other errors hide their message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		utils.WriteError(rec, errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "connection refused")
	})
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusConflict, utils.StatusCode(utils.Conflict("dup")))
	assert.Equal(t, http.StatusInternalServerError, utils.StatusCode(errors.New("boom")))
}
