package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
)

// Manager manages LLM providers and their lifecycle
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	logger   types.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		logger:  logging.GetGlobalLogger(),
	}
}

// Start creates the configured provider. A missing API key or a failed
// startup check marks the manager unhealthy but does not stop the server;
// the next successful Generate or CheckHealth clears the mark.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
		"model":    m.config.LLM.Model,
	})

	provider, err := m.factory.CreateProvider()
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	m.provider = provider

	if m.config.LLM.APIKey == "" {
		m.healthy = false
		m.logger.Warn("LLM API key not configured - resume parsing will be unavailable", map[string]interface{}{
			"provider": provider.GetProviderName(),
		})
		return nil
	}

	if !m.config.LLM.CheckOnStart {
		m.healthy = true
		m.logger.Info("LLM manager started", map[string]interface{}{"provider": provider.GetProviderName()})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.config.LLM.Timeout)
	defer cancel()

	if err := provider.IsHealthy(ctx); err != nil {
		m.healthy = false
		m.logger.Warn("LLM provider health check failed - resume parsing will be unavailable", map[string]interface{}{
			"provider": provider.GetProviderName(),
			"error":    err.Error(),
		})
		return nil
	}

	m.healthy = true
	m.logger.Info("LLM manager started and provider verified", map[string]interface{}{"provider": provider.GetProviderName()})
	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Generate makes one bounded call to the provider. Errors wrap
// ErrModelTimeout when llm.timeout elapses and ErrModelUnavailable otherwise.
func (m *Manager) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.RLock()
	provider := m.provider
	healthy := m.healthy
	m.mu.RUnlock()

	if provider == nil {
		return "", fmt.Errorf("%w: LLM manager not started", ErrModelUnavailable)
	}
	// A failed health check does not block calls; the call itself decides
	if m.config.LLM.APIKey == "" {
		return "", fmt.Errorf("%w: %s API key is not configured", ErrModelUnavailable, provider.GetProviderName())
	}

	callCtx, cancel := context.WithTimeout(ctx, m.config.LLM.Timeout)
	defer cancel()

	start := time.Now()
	text, err := provider.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case ctx.Err() != nil:
			// The caller went away; report their cancellation unchanged
			return "", ctx.Err()
		case errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
			m.logger.Warn("LLM call timed out", map[string]interface{}{
				"provider": provider.GetProviderName(),
				"timeout":  m.config.LLM.Timeout.String(),
			})
			return "", fmt.Errorf("%w: no answer after %s", ErrModelTimeout, m.config.LLM.Timeout)
		default:
			m.logger.Error("LLM call failed", map[string]interface{}{
				"provider": provider.GetProviderName(),
				"duration": elapsed.String(),
				"error":    err.Error(),
			})
			return "", fmt.Errorf("%w: %w", ErrModelUnavailable, err)
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty completion from %s", ErrModelUnavailable, provider.GetProviderName())
	}

	if !healthy {
		m.setHealthy(true)
		m.logger.Info("LLM provider recovered", map[string]interface{}{"provider": provider.GetProviderName()})
	}

	m.logger.Debug("LLM call completed", map[string]interface{}{
		"provider":        provider.GetProviderName(),
		"prompt_length":   len(prompt),
		"response_length": len(text),
		"duration":        elapsed.String(),
	})
	return text, nil
}

// IsHealthy checks if the LLM manager and provider are healthy
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth probes the provider and records the result
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)
	m.setHealthy(err == nil)
	return err
}

func (m *Manager) setHealthy(healthy bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Stop may have run while the call was in flight
	if m.provider != nil {
		m.healthy = healthy
	}
}
