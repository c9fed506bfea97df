package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Health(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		h := NewHealthHandler(testLogger, HealthCheck{Name: "postgres", Check: ok}, HealthCheck{Name: "redis", Check: ok})
		w := doRequest(t, newTestRouter(h), http.MethodGet, "/api/health", "", false)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"postgres":"ok","redis":"ok"}}`, w.Body.String())
	})

	t.Run("redis down", func(t *testing.T) {
		h := NewHealthHandler(testLogger, HealthCheck{Name: "postgres", Check: ok}, HealthCheck{Name: "redis", Check: down})
		w := doRequest(t, newTestRouter(h), http.MethodGet, "/api/health", "", false)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"postgres":"ok","redis":"unavailable"}}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "refused")
	})
}
