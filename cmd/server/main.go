package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	"resume-parser/internal/api/routes"
	"resume-parser/internal/config"
	"resume-parser/internal/extractor"
	"resume-parser/internal/llm"
	"resume-parser/internal/logging"
	"resume-parser/internal/pipeline"
	"resume-parser/internal/ratelimit"
	"resume-parser/pkg/utils"
)

func main() {
	configPath := utils.GetStringOrDefault(os.Getenv("CONFIG_PATH"), "configs/config.yaml")

	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting resume parser", map[string]interface{}{
		"provider": cfg.LLM.Provider,
		"model":    cfg.LLM.Model,
	})

	// Initialize LLM manager
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Fatal("Failed to start LLM manager", map[string]interface{}{"error": err.Error()})
	}

	deps := routes.Dependencies{
		Pipeline: pipeline.New(extractor.New(), llmManager),
		Model:    llmManager,
	}

	if cfg.RateLimit.Enabled {
		limiter, err := ratelimit.New(cfg)
		if err != nil {
			logger.Fatal("Failed to create rate limiter", map[string]interface{}{"error": err.Error()})
		}
		defer limiter.Stop()
		deps.Limiter = limiter

		logger.Info("Rate limiting enabled", map[string]interface{}{
			"backend":             limiter.Name(),
			"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
		})
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	// Setup routes
	if err := routes.SetupRoutes(e, cfg, deps); err != nil {
		logger.Fatal("Failed to set up routes", map[string]interface{}{"error": err.Error()})
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop accepting requests before the model client goes away
		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := cfg.Address()
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server failed to start", map[string]interface{}{"error": err.Error()})
	}
	<-done
}
