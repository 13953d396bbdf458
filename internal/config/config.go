package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains all settings for the outbound AI completion provider,
// including the retry and rate-limit discipline applied to every call.
type LLMConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`
	Model  string `mapstructure:"model"   validate:"required"`
	APIURL string `mapstructure:"api_url" validate:"required,url"`

	// Sampling parameters forwarded with every completion request.
	Temperature      float64 `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	TopP             float64 `mapstructure:"top_p"             validate:"gte=0,lte=1"`
	FrequencyPenalty float64 `mapstructure:"frequency_penalty" validate:"gte=-2,lte=2"`
	PresencePenalty  float64 `mapstructure:"presence_penalty"  validate:"gte=-2,lte=2"`

	// Retry discipline for transient provider failures (429 and 5xx).
	MaxRetries          int `mapstructure:"max_retries"            validate:"required,gt=0"`
	InitialRetryDelayMs int `mapstructure:"initial_retry_delay_ms" validate:"required,gt=0"`
	MaxRetryDelayMs     int `mapstructure:"max_retry_delay_ms"     validate:"required,gt=0"`
	BackoffFactor       int `mapstructure:"backoff_factor"         validate:"required,gt=1"`

	// Process-wide limits on outbound provider traffic.
	MaxRequestsPerMinute  int `mapstructure:"max_requests_per_minute" validate:"required,gt=0"`
	MaxConcurrentRequests int `mapstructure:"max_concurrent_requests" validate:"required,gt=0"`

	// Descriptive headers identifying this application to the provider.
	AppReferer string `mapstructure:"app_referer"`
	AppTitle   string `mapstructure:"app_title"`
}
