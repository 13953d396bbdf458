package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and optionally a
// config.yaml file in the working directory. Environment variables use the
// CARDFORGE_ prefix with underscores for nesting (e.g. CARDFORGE_SERVER_PORT,
// CARDFORGE_LLM_API_KEY) and take precedence over file values.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("CARDFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers defaults for every key so AutomaticEnv can see them
// and so a minimal environment (database URL, JWT secret, API key) is enough
// to start the server.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080) // 7 days
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("llm.model", "openai/gpt-4o-mini")
	v.SetDefault("llm.api_url", "https://openrouter.ai/api/v1/chat/completions")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.top_p", 0.95)
	v.SetDefault("llm.frequency_penalty", 0.0)
	v.SetDefault("llm.presence_penalty", 0.0)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.initial_retry_delay_ms", 1000)
	v.SetDefault("llm.max_retry_delay_ms", 5000)
	v.SetDefault("llm.backoff_factor", 2)
	v.SetDefault("llm.max_requests_per_minute", 60)
	v.SetDefault("llm.max_concurrent_requests", 5)
	v.SetDefault("llm.app_referer", "https://cardforge.app")
	v.SetDefault("llm.app_title", "CardForge")

	// No defaults for secrets: database.url, auth.jwt_secret, llm.api_key
	// must come from the environment or config file.
	v.SetDefault("database.url", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("llm.api_key", "")
}
