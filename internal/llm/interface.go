package llm

import (
	"context"
	"errors"
)

var (
	// ErrModelUnavailable covers transport, auth and API failures and empty completions
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrModelTimeout means the model did not answer within llm.timeout
	ErrModelTimeout = errors.New("model timeout")
)

// LLMProvider sends a prompt to one text-generation backend
type LLMProvider interface {
	// Generate makes a single blocking call and returns the completion text
	Generate(ctx context.Context, prompt string) (string, error)

	// IsHealthy checks if the LLM provider is configured and reachable
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}
