package llm

import (
	"context"
	"fmt"
)

// combines an Embedder with the two generation tiers
type CompositeLLM struct {
	Embedder

	fast    TextGenerator
	premium TextGenerator
}

// creates a new LLM with auto-configuration from environment variables
func NewLLM(ctx context.Context) (LLM, error) {
	config, err := loadConfig()

	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewLLMWithConfig(ctx, config)
}

// creates a new LLM with explicit configuration
func NewLLMWithConfig(_ context.Context, config *Config) (LLM, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// create embedder based on provider
	var embedder Embedder

	switch config.EmbedderProvider {
	case ProviderOpenAI:
		embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey: config.EmbedderAPIKey,
			Model:  config.EmbedderModel,
		})
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", config.EmbedderProvider)
	}

	// both tiers talk to the Anthropic messages API with different
	// models and output budgets
	fast := NewAnthropicGenerator(AnthropicConfig{
		APIKey:      config.AnthropicAPIKey,
		Model:       config.FastModel,
		MaxTokens:   config.FastMaxTokens,
		Temperature: config.Temperature,
	})

	premium := NewAnthropicGenerator(AnthropicConfig{
		APIKey:      config.AnthropicAPIKey,
		Model:       config.PremiumModel,
		MaxTokens:   config.PremiumMaxTokens,
		Temperature: config.Temperature,
	})

	return &CompositeLLM{
		Embedder: embedder,
		fast:     fast,
		premium:  premium,
	}, nil
}

// returns the generator for the requested tier, defaulting to fast for
// unrecognized tier names
func (l *CompositeLLM) Generator(tier Tier) TextGenerator {
	if tier == TierPremium {
		return l.premium
	}

	return l.fast
}
