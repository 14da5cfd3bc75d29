package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"
)

// OpenAITranslator translates through an OpenAI-compatible chat
// completion API.
type OpenAITranslator struct {
	client *openai.Client
	model  string
	source language.Tag
	target language.Tag
}

// NewOpenAITranslator creates an OpenAI-backed translator. baseURL is
// optional and allows pointing at any OpenAI-compatible endpoint.
func NewOpenAITranslator(apiKey, baseURL, model string, source, target language.Tag) (*OpenAITranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAITranslator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		source: source,
		target: target,
	}, nil
}

func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(t.source, t.target, text),
			},
		},
		Temperature: 0.3,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (t *OpenAITranslator) Name() string {
	return "openai"
}
