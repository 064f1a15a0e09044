// Package config handles application configuration using Viper.
// Viper supports YAML files, environment variables, and defaults — merged in
// priority order. Configuration is loaded into structs, not accessed as raw
// key-value pairs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct. Nested structs organize related
// settings; `mapstructure` tags tell Viper how to map YAML/env keys to fields.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProvidersConfig holds one entry per LLM provider. A provider with an empty
// API key is simply not registered — the planner's categories that route to
// it will record a "not configured" error and the search carries on with
// whatever providers exist.
type ProvidersConfig struct {
	Anthropic  ProviderConfig `mapstructure:"anthropic"`
	OpenAI     ProviderConfig `mapstructure:"openai"`
	Gemini     ProviderConfig `mapstructure:"gemini"`
	Perplexity ProviderConfig `mapstructure:"perplexity"`
	Mistral    ProviderConfig `mapstructure:"mistral"`
}

type ProviderConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// SearchConfig tunes the pipeline: which provider profiles the company, how
// long one provider call may take, how many tokens each call may spend, and
// the pause between sequential category queries.
type SearchConfig struct {
	ProfileProvider  string        `mapstructure:"profile_provider"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
	CategoryDelay    time.Duration `mapstructure:"category_delay"`
	MaxTokens        int           `mapstructure:"max_tokens"`
	ProfileMaxTokens int           `mapstructure:"profile_max_tokens"`
	RatePerMinute    int           `mapstructure:"rate_per_minute"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Defaults — these apply when neither file nor env provides a value
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/investor-scout.db")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("providers.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("providers.openai.model", "gpt-4o")
	v.SetDefault("providers.gemini.model", "gemini-1.5-pro")
	v.SetDefault("providers.perplexity.model", "sonar-pro")
	v.SetDefault("providers.mistral.model", "mistral-large-latest")
	v.SetDefault("search.profile_provider", "anthropic")
	v.SetDefault("search.call_timeout", "120s")
	v.SetDefault("search.category_delay", "1s")
	v.SetDefault("search.max_tokens", 8000)
	v.SetDefault("search.profile_max_tokens", 4096)
	v.SetDefault("search.rate_per_minute", 10)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read config file (ignore "not found" — defaults + env are enough)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables override everything.
	// SCOUT_ prefix + nested keys: SCOUT_PROVIDERS_OPENAI_API_KEY=sk-... →
	// providers.openai.api_key
	v.SetEnvPrefix("SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Address returns the listen address string like "0.0.0.0:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
