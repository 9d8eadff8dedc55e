package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/genai"

	"resume-parser/internal/config"
	"resume-parser/internal/logging"
	"resume-parser/internal/logging/types"
)

// GeminiProvider implements the LLM provider interface using the Gemini API
type GeminiProvider struct {
	config *config.Config
	logger types.Logger

	once      sync.Once
	client    *genai.Client
	clientErr error
}

// NewGeminiProvider creates a Gemini provider. The client is built on first
// use so a missing key surfaces as a call error rather than a startup failure.
func NewGeminiProvider(cfg *config.Config) *GeminiProvider {
	return &GeminiProvider{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

func (gp *GeminiProvider) getClient(ctx context.Context) (*genai.Client, error) {
	gp.once.Do(func() {
		if gp.config.LLM.APIKey == "" {
			gp.clientErr = fmt.Errorf("Gemini API key not configured - set GEMINI_API_KEY or LLM_API_KEY")
			return
		}

		clientConfig := &genai.ClientConfig{
			APIKey:  gp.config.LLM.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if gp.config.LLM.BaseURL != "" {
			clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: gp.config.LLM.BaseURL}
		}

		client, err := genai.NewClient(ctx, clientConfig)
		if err != nil {
			gp.clientErr = fmt.Errorf("failed to create Gemini client: %w", err)
			return
		}
		gp.client = client
	})
	return gp.client, gp.clientErr
}

// Generate sends prompt as a single text turn and returns the candidate text
func (gp *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := gp.getClient(ctx)
	if err != nil {
		return "", err
	}

	startTime := time.Now()
	result, err := client.Models.GenerateContent(ctx, gp.config.LLM.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(gp.config.LLM.Temperature),
		MaxOutputTokens: int32(gp.config.LLM.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in Gemini response")
	}

	gp.logger.Debug("Gemini response received", map[string]interface{}{
		"model":           gp.config.LLM.Model,
		"response_length": len(text),
		"processing_time": time.Since(startTime).String(),
	})
	return text, nil
}

// IsHealthy sends a minimal request to verify key and connectivity
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	client, err := gp.getClient(ctx)
	if err != nil {
		return err
	}

	if _, err := client.Models.GenerateContent(ctx, gp.config.LLM.Model, genai.Text("Hello"), &genai.GenerateContentConfig{
		MaxOutputTokens: 16,
	}); err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}
	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
