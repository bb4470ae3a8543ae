package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finboard/src/worker/controllers"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) Refresh(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestWorkerRoutes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	news := &stubRefresher{}
	calendar := &stubRefresher{err: errors.New("no sources")}
	controller := controllers.NewController(logger,
		controllers.Job{Name: "news", CronSpec: "@every 1h", Timeout: time.Second, Refresher: news},
		controllers.Job{Name: "calendar", CronSpec: "@every 1h", Timeout: time.Second, Refresher: calendar},
	)
	require.NoError(t, controller.ScheduleAll())
	defer controller.Stop()

	server := NewServer(controller)

	do := func(method, path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
		return rec
	}

	t.Run("Alive", func(t *testing.T) {
		rec := do(http.MethodGet, "/alive")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Im alive!", rec.Body.String())
	})

	t.Run("List jobs", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/jobs/")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Success bool                    `json:"success"`
			Count   int                     `json:"count"`
			Data    []controllers.JobStatus `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, 2, body.Count)
	})

	t.Run("Refresh one job", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/jobs/news/refresh")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, news.calls)
	})

	t.Run("Failed refresh is a bad gateway", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/jobs/calendar/refresh")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), `"success":false`)
	})

	t.Run("Unknown job", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/jobs/quotes/refresh")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
