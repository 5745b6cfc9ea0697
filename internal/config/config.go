package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the backroom service.
type Config struct {
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"backroom-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"zync"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort         int           `env:"HTTP_PORT" envDefault:"8084"`
	MetricsPort      int           `env:"METRICS_PORT" envDefault:"9094"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS" envDefault:""`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Object storage (Cloudflare R2 or any S3-compatible bucket).
	StorageBucket       string `env:"STORAGE_BUCKET,notEmpty"`
	StorageEndpoint     string `env:"STORAGE_ENDPOINT"`
	StorageRegion       string `env:"STORAGE_REGION" envDefault:"auto"`
	StorageAccessKeyID  string `env:"STORAGE_ACCESS_KEY_ID,notEmpty"`
	StorageSecretKey    string `env:"STORAGE_SECRET_ACCESS_KEY,notEmpty"`
	StorageUsePathStyle bool   `env:"STORAGE_USE_PATH_STYLE" envDefault:"true"`

	// Conversation turn generation provider (OpenAI-compatible).
	TurnProviderURL    string        `env:"TURN_PROVIDER_URL" envDefault:"https://api.together.xyz/v1"`
	TurnProviderKey    string        `env:"TURN_PROVIDER_API_KEY,notEmpty"`
	TurnModel          string        `env:"TURN_MODEL" envDefault:"meta-llama/Meta-Llama-3.1-405B-Instruct-Turbo"`
	TurnTimeout        time.Duration `env:"TURN_TIMEOUT" envDefault:"75s"`
	TurnTemperature    float32       `env:"TURN_TEMPERATURE" envDefault:"0.8"`
	TurnMaxTokens      int           `env:"TURN_MAX_TOKENS" envDefault:"150"`
	FinalTurnMaxTokens int           `env:"FINAL_TURN_MAX_TOKENS" envDefault:"200"`

	// Token parameter generation provider.
	TokenProviderURL string        `env:"TOKEN_PROVIDER_URL" envDefault:"https://api.openai.com/v1"`
	TokenProviderKey string        `env:"TOKEN_PROVIDER_API_KEY,notEmpty"`
	TokenModel       string        `env:"TOKEN_MODEL" envDefault:"gpt-4"`
	TokenTimeout     time.Duration `env:"TOKEN_TIMEOUT" envDefault:"60s"`

	// Public site base, used to synthesize token social links.
	SiteBaseURL string `env:"SITE_BASE_URL" envDefault:"https://makewithzync.com"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if cfg.TurnMaxTokens <= 0 {
		cfg.TurnMaxTokens = 150
	}
	if cfg.FinalTurnMaxTokens <= 0 {
		cfg.FinalTurnMaxTokens = 200
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 75 * time.Second
	}

	return cfg, nil
}

// Addr returns the listen address for the HTTP API.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// MetricsAddr returns the listen address for the Prometheus endpoint.
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf(":%d", c.MetricsPort)
}
