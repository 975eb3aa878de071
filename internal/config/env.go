package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	openaiKey := os.Getenv("OPENAI_API_KEY")
	anthropicKey := os.Getenv("ANTHROPIC_API_KEY")
	supabaseConnStr := os.Getenv("SUPABASE_CONNECTION_STRING")
	jwtSecret := os.Getenv("JWT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	environment := os.Getenv("ENVIRONMENT")

	if openaiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if anthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
	}

	if supabaseConnStr == "" {
		return nil, fmt.Errorf("SUPABASE_CONNECTION_STRING environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if environment == "" {
		environment = "development"
	}

	return &Config{
		OpenAIKey:          openaiKey,
		AnthropicKey:       anthropicKey,
		SupabaseConnString: supabaseConnStr,
		JWTSecret:          jwtSecret,
		BaseURL:            baseURL,
		Environment:        environment,
	}, nil
}
