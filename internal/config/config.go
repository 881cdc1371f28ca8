package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the scoring service. It is
// loaded once at startup and treated as read-only afterwards.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	DefaultBackend   string
	AllowFallback    bool
	DefaultMaxMarks  float64
	EmbeddingTimeout time.Duration
	EmbeddingModel   string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	MaxInputChars    int
	BatchConcurrency int
	RateLimitMax     int
	RateLimitWindow  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ANSWERLY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Answerly Scoring API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("scoring.default_backend", "embedding")
	v.SetDefault("scoring.allow_fallback", true)
	v.SetDefault("scoring.default_max_marks", 100)
	v.SetDefault("scoring.max_input_chars", 8192)
	v.SetDefault("scoring.batch_concurrency", 4)
	v.SetDefault("embedding.timeout", "10s")
	v.SetDefault("embedding.model", "text-embedding-3-small")
	v.SetDefault("ratelimit.max", 30)
	v.SetDefault("ratelimit.window", "1m")

	timeout, err := time.ParseDuration(v.GetString("embedding.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid embedding timeout: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("ratelimit.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		DefaultBackend:   strings.ToLower(v.GetString("scoring.default_backend")),
		AllowFallback:    v.GetBool("scoring.allow_fallback"),
		DefaultMaxMarks:  v.GetFloat64("scoring.default_max_marks"),
		EmbeddingTimeout: timeout,
		EmbeddingModel:   v.GetString("embedding.model"),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		OpenAIBaseURL:    v.GetString("openai_base_url"),
		MaxInputChars:    v.GetInt("scoring.max_input_chars"),
		BatchConcurrency: v.GetInt("scoring.batch_concurrency"),
		RateLimitMax:     v.GetInt("ratelimit.max"),
		RateLimitWindow:  window,
	}

	if cfg.DefaultBackend != "lexical" && cfg.DefaultBackend != "embedding" {
		return Config{}, fmt.Errorf("unknown default backend %q", cfg.DefaultBackend)
	}

	if cfg.DefaultMaxMarks <= 0 {
		cfg.DefaultMaxMarks = 100
	}

	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 4
	}

	return cfg, nil
}
