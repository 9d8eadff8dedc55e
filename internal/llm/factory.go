package llm

import (
	"fmt"
	"sort"
	"strings"

	"resume-parser/internal/config"
	"resume-parser/internal/llm/providers"
)

// providerConstructors maps llm.provider values to their constructors
var providerConstructors = map[string]func(cfg *config.Config) LLMProvider{
	"claude": func(cfg *config.Config) LLMProvider { return providers.NewClaudeProvider(cfg) },
	"gemini": func(cfg *config.Config) LLMProvider { return providers.NewGeminiProvider(cfg) },
}

// LLMFactory creates LLM provider instances
type LLMFactory struct {
	config *config.Config
}

// NewLLMFactory creates a new LLM factory instance
func NewLLMFactory(cfg *config.Config) *LLMFactory {
	return &LLMFactory{
		config: cfg,
	}
}

// CreateProvider creates the provider named by llm.provider. An empty
// llm.model is filled with the provider's default model.
func (f *LLMFactory) CreateProvider() (LLMProvider, error) {
	name := strings.ToLower(strings.TrimSpace(f.config.LLM.Provider))
	build, ok := providerConstructors[name]
	if !ok {
		return nil, fmt.Errorf("unsupported LLM provider: %s", f.config.LLM.Provider)
	}

	if f.config.LLM.Model == "" {
		f.config.LLM.Model = config.DefaultModel(name)
	}
	return build(f.config), nil
}

// GetSupportedProviders returns the provider names in sorted order
func (f *LLMFactory) GetSupportedProviders() []string {
	names := make([]string, 0, len(providerConstructors))
	for name := range providerConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
