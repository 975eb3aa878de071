package llm

import "context"

// represents different LLM providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// named model configuration selecting which backing model and output
// budget a request uses
type Tier string

const (
	TierFast    Tier = "fast"
	TierPremium Tier = "premium"
)

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// generates chat completions, whole or streamed
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	StreamText(ctx context.Context, req TextGenerationRequest, onChunk func(string) error) (*TextGenerationResponse, error)
	Model() string
}

// combines embedding generation with tiered text generation
type LLM interface {
	Embedder
	Generator(tier Tier) TextGenerator
}

// represents a single conversation turn
type Message struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // message content
}

type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float32
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

// holds configuration for LLM initialization
type Config struct {
	// embedder configuration
	EmbedderProvider Provider
	EmbedderAPIKey   string
	EmbedderModel    string // e.g., "text-embedding-3-small"

	// generator configuration (both tiers use the Anthropic messages API)
	AnthropicAPIKey  string
	FastModel        string // e.g., "claude-3-5-haiku-latest"
	FastMaxTokens    int
	PremiumModel     string // e.g., "claude-sonnet-4-20250514"
	PremiumMaxTokens int
	Temperature      float32
}
