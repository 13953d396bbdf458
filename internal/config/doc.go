// Package config loads and validates application configuration from
// environment variables and optional config files via viper. Configuration
// is organized into logical groups (server, database, auth, llm) that are
// injected into the components that need them.
package config
