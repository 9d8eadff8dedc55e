package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/ratelimit"
	"resume-parser/pkg/utils"
)

// Routes that never reach the model and are left out of the budget
var unmeteredPrefixes = []string{"/health", "/download/", "/api/v1/resume/export/"}

// RateLimit rejects clients that exceed their request budget. Only POST
// requests that run a parse are counted.
func RateLimit(limiter ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodPost || unmetered(c.Path()) {
				return next(c)
			}

			allowed, _ := limiter.Allow(req.Context(), c.RealIP())
			if allowed {
				return next(c)
			}

			c.Response().Header().Set("Retry-After", "60")
			return writeError(c, utils.NewRateLimitedError("please wait before parsing another resume"))
		}
	}
}

func unmetered(path string) bool {
	for _, prefix := range unmeteredPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
