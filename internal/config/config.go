package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Quota    QuotaConfig    `mapstructure:"quota"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains the upstream model integration settings. The service
// talks to an OpenRouter-compatible chat endpoint for text generation; image
// generation goes either through the same endpoint or directly to the Gemini
// API depending on ImageProvider.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"  validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	TextModel  string `mapstructure:"text_model"  validate:"required"`
	ImageModel string `mapstructure:"image_model" validate:"required"`

	// ImageProvider selects the image generation backend: "openrouter"
	// reuses the chat endpoint with image modalities, "gemini" calls the
	// Gemini API directly using GeminiAPIKey.
	ImageProvider string `mapstructure:"image_provider" validate:"required,oneof=openrouter gemini"`
	GeminiAPIKey  string `mapstructure:"gemini_api_key" validate:"required_if=ImageProvider gemini"`

	// RequestTimeoutSeconds bounds each upstream call, distinct from the
	// overall request deadline.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`

	// SiteURL and SiteName populate the optional OpenRouter attribution
	// headers (HTTP-Referer / X-Title).
	SiteURL  string `mapstructure:"site_url"`
	SiteName string `mapstructure:"site_name"`
}

// QuotaConfig contains the generation quota settings. The limit is shared by
// all users and read once at process start; there are no per-user overrides.
type QuotaConfig struct {
	FreeGenerationLimit int `mapstructure:"free_generation_limit" validate:"required,gt=0"`
}
