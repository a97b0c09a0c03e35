package llm

import (
	"context"
	"fmt"

	"meal-planner/internal/config"
)

// NewTextGenerator builds the configured provider, wrapped with the configured
// rate limit. The result implements Closer when the provider holds a connection.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	var gen TextGenerator
	switch cfg.LLM.Provider {
	case config.ProviderGemini, "":
		gen = NewGeminiRESTClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Model, cfg.Gemini.Timeout)
	case config.ProviderGeminiSDK:
		client, err := NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, err
		}
		gen = client
	case config.ProviderGroq:
		gen = NewGroqClient(cfg.Groq.APIKey, "", cfg.Groq.Model, 0.3)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
	return WithRateLimit(gen, cfg.LLM.RequestsPerMinute), nil
}
