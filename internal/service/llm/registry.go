package llm

import (
	"fmt"
	"log/slog"

	"counselpost/internal/config"
	"counselpost/internal/domain/services"
	"counselpost/internal/service/llm/providers/anthropic"
	"counselpost/internal/service/llm/providers/openai"
	"counselpost/internal/service/llm/providers/simulate"
)

// Registry routes model identifiers to the provider that serves them.
// Providers are constructed once at startup and injected wherever the
// pipeline needs a generator; there are no process-global singletons.
type Registry struct {
	providers []services.TextGenerator
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers ...services.TextGenerator) *Registry {
	return &Registry{providers: providers}
}

// ForModel returns the provider that supports model.
func (r *Registry) ForModel(model string) (services.TextGenerator, error) {
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	for _, p := range r.providers {
		if p.SupportsModel(model) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no provider supports model %q", model)
}

// Setup builds the provider registry from configuration. The simulate
// provider is always registered; real providers only when their API key is
// configured. Fails fast if the configured default model has no provider.
func Setup(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	providers := []services.TextGenerator{
		simulate.NewProvider(cfg.SimulateMinDelay, cfg.SimulateMaxDelay),
	}

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL))
		logger.Info("generation provider registered", "provider", "openai")
	}
	if cfg.AnthropicAPIKey != "" {
		p, err := anthropic.NewProvider(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("create anthropic provider: %w", err)
		}
		providers = append(providers, p)
		logger.Info("generation provider registered", "provider", "anthropic")
	}

	registry := NewRegistry(providers...)
	if _, err := registry.ForModel(cfg.GeneratorModel); err != nil {
		return nil, fmt.Errorf("default model %q: %w", cfg.GeneratorModel, err)
	}
	return registry, nil
}
