package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resume-parser/internal/api/handlers"
	"resume-parser/internal/api/middleware"
	"resume-parser/internal/config"
	"resume-parser/internal/pipeline"
	"resume-parser/internal/ratelimit"
	"resume-parser/internal/web"
)

// Dependencies are the long-lived services the routes need
type Dependencies struct {
	Pipeline *pipeline.Pipeline
	Model    handlers.ModelStatus
	// Limiter is nil when rate limiting is disabled
	Limiter ratelimit.Limiter
}

// SetupRoutes configures all API and page routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Dependencies) error {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.RequestValidation(cfg.Extraction.MaxFileSize))
	e.Use(middleware.TimeoutConfig(cfg.Server.WriteTimeout))
	if deps.Limiter != nil {
		e.Use(middleware.RateLimit(deps.Limiter))
	}

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler(deps.Model, deps.Limiter))
		health.GET("/ready", handlers.ReadinessHandler(deps.Model))
		health.GET("/live", handlers.LivenessHandler)
	}

	upload := handlers.UploadResumeHandler(cfg, deps.Pipeline)
	parseText := handlers.ParseTextHandler(cfg, deps.Pipeline)

	// Paths used by existing clients of the backend
	e.POST("/upload-resume", upload)
	e.POST("/parse-text", parseText)

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		resume := v1.Group("/resume")
		{
			resume.POST("/upload", upload)
			resume.POST("/parse-text", parseText)
			resume.POST("/export/json", handlers.ExportJSONHandler())
			resume.POST("/export/text", handlers.ExportTextHandler())
		}
	}

	if !cfg.Web.Enabled {
		e.GET("/", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{
				"service": "Resume Parser",
				"version": handlers.Version,
				"status":  "running",
			})
		})
		return nil
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	e.Renderer = renderer

	pages := handlers.NewWebHandlers(cfg, deps.Pipeline, deps.Model)
	e.GET("/", pages.Index)
	e.POST("/parse", pages.Parse)
	e.POST("/download/json", pages.DownloadJSON)
	e.POST("/download/text", pages.DownloadText)

	return nil
}
