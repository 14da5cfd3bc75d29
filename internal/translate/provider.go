package translate

import (
	"context"
	"fmt"

	"golang.org/x/text/language"
)

// ProviderConfig selects and configures the translation provider.
type ProviderConfig struct {
	Provider string // "gemini" or "openai"

	GeminiAPIKey string
	GeminiModel  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	SourceLanguage language.Tag
	TargetLanguage language.Tag
}

// NewProvider creates the configured translation provider, wrapped in a
// circuit breaker.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Translator, error) {
	var (
		provider Translator
		err      error
	)

	switch cfg.Provider {
	case "gemini":
		provider, err = NewGeminiTranslator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.SourceLanguage, cfg.TargetLanguage)
	case "openai":
		provider, err = NewOpenAITranslator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.SourceLanguage, cfg.TargetLanguage)
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return WithBreaker(provider), nil
}
