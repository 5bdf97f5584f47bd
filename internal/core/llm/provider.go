package llm

import (
	"context"
	"fmt"

	"github.com/unimoghub/manuals/internal/config"
	"github.com/unimoghub/manuals/internal/core"
)

// NewEmbedder selects the embedding provider from config.
func NewEmbedder(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, error) {
	switch cfg.EmbedProvider {
	case "", "openai":
		return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbedModel), nil
	case "gemini":
		return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
	default:
		return nil, fmt.Errorf("unknown embed provider %q", cfg.EmbedProvider)
	}
}
