package translate

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"google.golang.org/genai"
)

// GeminiTranslator translates through the Gemini generative-language
// API.
type GeminiTranslator struct {
	client *genai.Client
	model  string
	source language.Tag
	target language.Tag
}

// NewGeminiTranslator creates a Gemini-backed translator.
func NewGeminiTranslator(ctx context.Context, apiKey, model string, source, target language.Tag) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiTranslator{
		client: client,
		model:  model,
		source: source,
		target: target,
	}, nil
}

func (t *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	prompt := buildPrompt(t.source, t.target, text)

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	translation := strings.TrimSpace(resp.Text())
	if translation == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return translation, nil
}

func (t *GeminiTranslator) Name() string {
	return "gemini"
}
