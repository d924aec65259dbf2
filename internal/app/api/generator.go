package api

import (
	"context"
	"fmt"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/upstream/gemini"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/upstream/openai"
	genports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
)

// BuildGenerator returns the configured upstream client without retries; callers decide who retries.
func BuildGenerator(ctx context.Context, cfg Config) (genports.NameGenerator, error) {
	switch cfg.LLMProvider {
	case ProviderGemini:
		return gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	case ProviderOpenAI:
		return openai.New(openai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL, Model: cfg.OpenAIModel})
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}
