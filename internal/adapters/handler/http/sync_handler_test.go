package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handler "github.com/comitanigiacomo/kanso-streaks/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

func setupSyncRouter(queue handler.SyncQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler.NewSyncHandler(queue).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestSyncHandler_Trigger(t *testing.T) {
	tests := []struct {
		name       string
		accepted   bool
		wantStatus int
		wantBody   string
	}{
		{"Queued", true, http.StatusAccepted, "queued"},
		{"Queue full", false, http.StatusServiceUnavailable, "sync queue is full"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := new(MockSyncQueue)
			queue.On("Enqueue", "api").Return(tt.accepted)

			w := httptest.NewRecorder()
			setupSyncRouter(queue).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			queue.AssertExpectations(t)
		})
	}
}

func TestSyncHandler_Status(t *testing.T) {
	t.Run("No run yet", func(t *testing.T) {
		queue := new(MockSyncQueue)
		queue.On("Status").Return(nil, true)

		w := httptest.NewRecorder()
		setupSyncRouter(queue).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["running"])
		assert.NotContains(t, body, "last_run")
	})

	t.Run("Last run reported", func(t *testing.T) {
		finished := time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC)
		run := &domain.SyncRun{
			ID:         "run-1",
			Reason:     "schedule",
			Status:     domain.SyncStatusFailed,
			Error:      "sync: load habits: boom",
			StartedAt:  finished.Add(-time.Second),
			FinishedAt: finished,
		}
		queue := new(MockSyncQueue)
		queue.On("Status").Return(run, false)

		w := httptest.NewRecorder()
		setupSyncRouter(queue).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sync/status", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"running":false`)
		assert.Contains(t, w.Body.String(), "run-1")
		assert.Contains(t, w.Body.String(), "sync: load habits: boom")
	})
}
