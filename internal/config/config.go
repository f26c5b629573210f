package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Port              string
	FrontendURL       string
	RedisURL          string
	SessionTTL        time.Duration
	GolfGeniusBaseURL string
	ProviderTimeout   time.Duration
	RecapTimeout      time.Duration
	OpenAIBaseURL     string
	GeminiBaseURL     string
	AnthropicBaseURL  string
}

// Load reads the environment. Call godotenv.Load first to pick up a .env
// file. The user's API keys are never read from here.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		FrontendURL:       os.Getenv("FRONTEND_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		GolfGeniusBaseURL: os.Getenv("GOLF_GENIUS_BASE_URL"),
		OpenAIBaseURL:     os.Getenv("OPENAI_BASE_URL"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		AnthropicBaseURL:  os.Getenv("ANTHROPIC_BASE_URL"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ProviderTimeout, err = getDuration("PROVIDER_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RecapTimeout, err = getDuration("RECAP_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}
