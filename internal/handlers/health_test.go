package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cinegrok-backend/internal/handlers"
	"cinegrok-backend/internal/models"
)

func TestHealthHandler(t *testing.T) {
	router := newRouter()
	router.GET("/health", handlers.HealthHandler)

	w := do(router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestReadinessHandler(t *testing.T) {
	ok := handlers.PingFunc(func(context.Context) error { return nil })
	down := handlers.PingFunc(func(context.Context) error { return errors.New("connection refused") })

	router := newRouter()
	router.GET("/ready", handlers.ReadinessHandler(map[string]handlers.Pinger{"database": ok, "redis": nil}))
	router.GET("/degraded", handlers.ReadinessHandler(map[string]handlers.Pinger{"database": down}))

	w := do(router, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"database": "ok", "redis": "disabled"}, decode[models.HealthResponse](t, w).Services)

	w = do(router, http.MethodGet, "/degraded", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decode[models.HealthResponse](t, w)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "error: connection refused", resp.Services["database"])
}
