package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinegrok-backend/internal/models"
)

// Pinger is anything health can check, such as *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// HealthHandler godoc
// @Summary     Health check
// @Description Returns the health status of the API
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
}

// ReadinessHandler reports each dependency. Any failed ping makes the
// response 503.
func ReadinessHandler(deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		resp := models.HealthResponse{Status: "ok", Services: map[string]string{}}
		code := http.StatusOK
		for name, dep := range deps {
			if dep == nil {
				resp.Services[name] = "disabled"
				continue
			}
			if err := dep.PingContext(ctx); err != nil {
				resp.Services[name] = "error: " + err.Error()
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Services[name] = "ok"
		}
		c.JSON(code, resp)
	}
}
