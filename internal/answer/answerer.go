package answer

import (
	"context"
	"fmt"

	"turnera/internal/config"
	"turnera/internal/dialog"
)

// New selects the configured answer provider. Provider choice and
// knowledge-base content are configuration, not engine behavior.
func New(ctx context.Context, cfg *config.Config) (dialog.Answerer, error) {
	knowledge := LoadKnowledge(cfg.KnowledgePath)

	switch cfg.AIProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
		return NewGeminiAnswerer(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, knowledge)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAIAnswerer(cfg.OpenAIAPIKey, cfg.OpenAIModel, knowledge), nil
	default:
		return nil, fmt.Errorf("unknown answer provider %q (want openai or gemini)", cfg.AIProvider)
	}
}
