package llm

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultFastModel        = "claude-3-5-haiku-latest"
	defaultPremiumModel     = "claude-sonnet-4-20250514"
	defaultEmbedderModel    = "text-embedding-3-small"
	defaultFastMaxTokens    = 1024
	defaultPremiumMaxTokens = 8000
)

// loadConfig loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	if anthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	embedderProvider := Provider(os.Getenv("EMBEDDER_PROVIDER"))
	if embedderProvider == "" {
		embedderProvider = ProviderOpenAI // default
	}

	embedderAPIKey := os.Getenv("OPENAI_API_KEY")
	if embedderAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultEmbedderModel
	}

	fastModel := os.Getenv("FAST_MODEL")
	if fastModel == "" {
		fastModel = defaultFastModel
	}

	premiumModel := os.Getenv("PREMIUM_MODEL")
	if premiumModel == "" {
		premiumModel = defaultPremiumModel
	}

	fastMaxTokens := defaultFastMaxTokens
	if maxTokensStr := os.Getenv("FAST_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			fastMaxTokens = val
		}
	}

	premiumMaxTokens := defaultPremiumMaxTokens
	if maxTokensStr := os.Getenv("PREMIUM_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil {
			premiumMaxTokens = val
		}
	}

	temperature := float32(0.7) // default
	if tempStr := os.Getenv("GENERATOR_TEMPERATURE"); tempStr != "" {
		if val, err := strconv.ParseFloat(tempStr, 32); err == nil {
			temperature = float32(val)
		}
	}

	return &Config{
		EmbedderProvider: embedderProvider,
		EmbedderAPIKey:   embedderAPIKey,
		EmbedderModel:    embedderModel,
		AnthropicAPIKey:  anthropicKey,
		FastModel:        fastModel,
		FastMaxTokens:    fastMaxTokens,
		PremiumModel:     premiumModel,
		PremiumMaxTokens: premiumMaxTokens,
		Temperature:      temperature,
	}, nil
}
