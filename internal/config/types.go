package config

type Config struct {
	OpenAIKey          string
	AnthropicKey       string
	SupabaseConnString string
	JWTSecret          string
	BaseURL            string
	Environment        string
}

type IngestFlags struct {
	Path   string
	UserID string
	Clear  bool
}
