package logging

import (
	"fmt"
	"sync"

	"resume-parser/internal/config"
	"resume-parser/internal/logging/adapters"
	"resume-parser/internal/logging/types"
)

// Manager owns the service logger and its adapters
type Manager struct {
	factory *AdapterFactory
	logger  *MultiLogger
}

func NewManager() *Manager {
	return &Manager{
		factory: NewAdapterFactory(),
		logger:  NewMultiLogger(),
	}
}

// Initialize configures level and adapters from cfg. Without any enabled
// adapter a stdout adapter in logging.format is installed.
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	enabled := 0
	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := m.factory.CreateAdapter(types.AdapterConfig{
			Name:    ac.Name,
			Type:    ac.Type,
			Enabled: ac.Enabled,
			Options: ac.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", ac.Name, err)
		}
		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", ac.Name, err)
		}
		enabled++
	}

	if enabled == 0 {
		return m.logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StreamConfig{
			Format: cfg.Logging.Format,
		}))
	}
	return nil
}

func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Health reports the first unhealthy adapter
func (m *Manager) Health() error {
	return m.logger.Health()
}

func (m *Manager) Close() error {
	return m.logger.Close()
}

var (
	globalMu      sync.Mutex
	globalManager *Manager
)

// InitializeLogging replaces the global logger with one built from cfg
func InitializeLogging(cfg *config.Config) error {
	manager := NewManager()
	if err := manager.Initialize(cfg); err != nil {
		_ = manager.Close()
		return err
	}

	globalMu.Lock()
	previous := globalManager
	globalManager = manager
	globalMu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// GetGlobalLogger returns the global logger, falling back to JSON on stdout
func GetGlobalLogger() Logger {
	return globalLogging().GetLogger()
}

// GlobalHealth reports the health of the global logger's adapters
func GlobalHealth() error {
	return globalLogging().Health()
}

func globalLogging() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		manager := NewManager()
		_ = manager.logger.AddAdapter(adapters.NewStdoutAdapter("fallback_stdout", adapters.StreamConfig{Format: "json"}))
		globalManager = manager
	}
	return globalManager
}

// CloseLogging flushes and closes the global logger
func CloseLogging() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		return nil
	}
	err := globalManager.Close()
	globalManager = nil
	return err
}

// LogWithRequestID returns the global logger tagged with a request id
func LogWithRequestID(requestID string) Logger {
	return GetGlobalLogger().WithField("request_id", requestID)
}
