package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
// Values come from the environment (a .env file is honored) with
// sensible defaults; CLI flags may override some of them later.
//
// Environment Variables:
//
// Provider Configuration:
// - TRANSLATE_PROVIDER: "gemini" or "openai" (default: gemini)
// - GEMINI_API_KEY: Gemini API key (required for the gemini provider)
// - GEMINI_MODEL: Gemini model name (default: gemini-1.5-flash-latest)
// - OPENAI_API_KEY: OpenAI API key (required for the openai provider)
// - OPENAI_API_URL: OpenAI-compatible endpoint URL (optional)
// - OPENAI_MODEL: OpenAI model name (default: gpt-4o-mini)
//
// Translation Configuration:
// - SOURCE_LANG: source language tag (default: en)
// - TARGET_LANG: target language tag (default: id)
// - API_DELAY_MS: fixed delay after each API call (default: 500)
// - CHECKPOINT_EVERY: checkpoint cadence in translated values (default: 10)
// - CACHE_DB: sqlite translation memory path (empty disables it)
//
// System Configuration:
// - LOG_LEVEL: DEBUG, INFO, WARN, ERROR (default: INFO)
// - LOG_FILE: write logs to this file instead of stdout (optional)
// - CRON_EXPR: run the job list on this cron schedule (empty runs once)

type Config struct {
	Provider  ProviderConfig  `json:"provider"`
	Translate TranslateConfig `json:"translate"`
	System    SystemConfig    `json:"system"`
}

// ProviderConfig selects the translation backend.
type ProviderConfig struct {
	Name string `json:"name"`

	GeminiAPIKey string `json:"-"`
	GeminiModel  string `json:"gemini_model"`

	OpenAIAPIKey string `json:"-"`
	OpenAIAPIURL string `json:"openai_api_url"`
	OpenAIModel  string `json:"openai_model"`
}

// TranslateConfig holds the pipeline tuning knobs.
type TranslateConfig struct {
	SourceLanguage  language.Tag  `json:"source_language"`
	TargetLanguage  language.Tag  `json:"target_language"`
	APIDelay        time.Duration `json:"api_delay"`
	CheckpointEvery int           `json:"checkpoint_every"`
	CacheDB         string        `json:"cache_db"`
}

// SystemConfig holds process-level settings.
type SystemConfig struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
	CronExpr string `json:"cron_expr"`
}

// Option is a function type for configuring Config.
type Option func(*Config)

// NewFromEnv creates a Config from environment variables and options.
// A .env file in the working directory is loaded first if present.
func NewFromEnv(opts ...Option) (*Config, error) {
	_ = godotenv.Load()

	sourceLang, err := parseLanguage(getEnvString("SOURCE_LANG", "en"))
	if err != nil {
		return nil, err
	}
	targetLang, err := parseLanguage(getEnvString("TARGET_LANG", "id"))
	if err != nil {
		return nil, err
	}

	config := &Config{
		Provider: ProviderConfig{
			Name:         getEnvString("TRANSLATE_PROVIDER", "gemini"),
			GeminiAPIKey: getEnvString("GEMINI_API_KEY", ""),
			GeminiModel:  getEnvString("GEMINI_MODEL", "gemini-1.5-flash-latest"),
			OpenAIAPIKey: getEnvString("OPENAI_API_KEY", ""),
			OpenAIAPIURL: getEnvString("OPENAI_API_URL", ""),
			OpenAIModel:  getEnvString("OPENAI_MODEL", "gpt-4o-mini"),
		},
		Translate: TranslateConfig{
			SourceLanguage:  sourceLang,
			TargetLanguage:  targetLang,
			APIDelay:        time.Duration(getEnvInt("API_DELAY_MS", 500)) * time.Millisecond,
			CheckpointEvery: getEnvInt("CHECKPOINT_EVERY", 10),
			CacheDB:         getEnvString("CACHE_DB", ""),
		},
		System: SystemConfig{
			LogLevel: getEnvString("LOG_LEVEL", "INFO"),
			LogFile:  getEnvString("LOG_FILE", ""),
			CronExpr: getEnvString("CRON_EXPR", ""),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks that the selected provider is usable. This is the
// only fatal configuration path: it runs before any job does.
func (c *Config) validate() error {
	switch c.Provider.Name {
	case "gemini":
		if c.Provider.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required, please set it in your environment or .env file")
		}
	case "openai":
		if c.Provider.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required, please set it in your environment or .env file")
		}
	default:
		return fmt.Errorf("unknown TRANSLATE_PROVIDER: %s", c.Provider.Name)
	}

	if c.Translate.CheckpointEvery <= 0 {
		return fmt.Errorf("CHECKPOINT_EVERY must be positive")
	}
	return nil
}

func parseLanguage(tag string) (language.Tag, error) {
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language tag %q: %w", tag, err)
	}
	return parsed, nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
