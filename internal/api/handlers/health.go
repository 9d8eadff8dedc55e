package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/api/middleware"
	"resume-parser/internal/logging"
	"resume-parser/internal/ratelimit"
	"resume-parser/pkg/models"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// ModelStatus is the part of the LLM manager the health checks read
type ModelStatus interface {
	IsHealthy() bool
	GetProviderName() string
}

// ModelChecker is implemented by model clients that can re-check their provider
type ModelChecker interface {
	CheckHealth(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports the service and its dependencies. It answers 200 even
// when the model is unavailable so the upload form stays reachable.
func HealthHandler(model ModelStatus, limiter ratelimit.Limiter) echo.HandlerFunc {
	return func(c echo.Context) error {
		logging.GetGlobalLogger().Debug("Health check requested", map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
		})

		checks := map[string]string{
			"api":      "ok",
			"llm":      modelCheck(model),
			"provider": model.GetProviderName(),
			"logging":  "ok",
		}
		if err := logging.GlobalHealth(); err != nil {
			checks["logging"] = err.Error()
		}
		if limiter != nil {
			checks["rate_limit"] = limiter.Name()
			if p, ok := limiter.(pinger); ok {
				ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
				if err := p.Ping(ctx); err != nil {
					checks["rate_limit"] = limiter.Name() + ": unreachable"
				}
				cancel()
			}
		}

		status := "healthy"
		if !model.IsHealthy() {
			status = "degraded"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// ReadinessHandler answers 503 until the model can take requests. An
// unhealthy model that supports it is re-checked on every call.
func ReadinessHandler(model ModelStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()
		logger.Debug("Readiness check requested", map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
		})

		if checker, ok := model.(ModelChecker); ok && !model.IsHealthy() {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
			if err := checker.CheckHealth(ctx); err != nil {
				logger.Debug("Model health check failed", map[string]interface{}{
					"request_id": middleware.GetRequestID(c),
					"error":      err.Error(),
				})
			}
			cancel()
		}

		response := models.HealthResponse{
			Status:    "ready",
			Timestamp: time.Now(),
			Version:   Version,
			Uptime:    time.Since(startTime),
			Checks: map[string]string{
				"api": "ok",
				"llm": modelCheck(model),
			},
		}

		if !model.IsHealthy() {
			response.Status = "not_ready"
			return c.JSON(http.StatusServiceUnavailable, response)
		}
		return c.JSON(http.StatusOK, response)
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(startTime),
	})
}

func modelCheck(model ModelStatus) string {
	if model.IsHealthy() {
		return "ok"
	}
	return "unavailable"
}
