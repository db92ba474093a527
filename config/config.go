// Package config loads gateway configuration from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all gateway configuration.
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Providers     []ProviderConfig
	Breaker       BreakerConfig
	Retry         RetryConfig
	Health        HealthConfig
	Selection     SelectionConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig

	// CatalogOverridePath optionally points at a YAML file replacing the
	// built-in model catalog tables.
	CatalogOverridePath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	// APIKeys is the accepted key set. Empty disables authentication.
	APIKeys []string
}

// ProviderConfig describes one upstream provider endpoint.
type ProviderConfig struct {
	Name    string
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// BreakerConfig tunes the per-provider circuit breakers.
type BreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// RetryConfig tunes the retry executor.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// HealthConfig tunes the provider health cache.
type HealthConfig struct {
	CacheTTL time.Duration
}

// SelectionConfig tunes automatic model selection.
type SelectionConfig struct {
	// ProviderPriorities maps provider name to a [0, 1] preference,
	// parsed from "groq=0.8,gemini=0.3". Unlisted providers score 0.5.
	ProviderPriorities map[string]float64
}

// DatabaseConfig holds optional Postgres settings. Usage persistence is
// disabled when URL is empty.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the connection string.
func (c DatabaseConfig) DSN() string {
	return c.URL
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LogString returns a loggable description without credentials.
func (c DatabaseConfig) LogString() string {
	if idx := strings.Index(c.URL, "@"); idx >= 0 {
		return "postgres://***" + c.URL[idx:]
	}
	return "postgres://***"
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string
	LogFormat string
}

// providerDefaults maps known providers to their OpenAI-compatible API
// roots and the env var carrying their key.
var providerDefaults = []struct {
	name    string
	baseURL string
	keyEnv  string
}{
	{"groq", "https://api.groq.com/openai/v1", "GROQ_API_KEY"},
	{"openrouter", "https://openrouter.ai/api/v1", "OPENROUTER_API_KEY"},
	{"deepseek", "https://api.deepseek.com/v1", "DEEPSEEK_API_KEY"},
	{"gemini", "https://generativelanguage.googleapis.com/v1beta/openai", "GEMINI_API_KEY"},
	{"mistral", "https://api.mistral.ai/v1", "MISTRAL_API_KEY"},
	{"codestral", "https://codestral.mistral.ai/v1", "CODESTRAL_API_KEY"},
	{"github-copilot", "https://models.inference.ai.azure.com", "GITHUB_TOKEN"},
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("PORT", 8080),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			RequestTimeout:  getEnvDuration("SERVER_REQUEST_TIMEOUT", 120*time.Second),
			MaxBodyBytes:    int64(getEnvInt("SERVER_MAX_BODY_BYTES", 1<<20)),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Auth: AuthConfig{
			APIKeys: splitNonEmpty(getEnv("GATEWAY_API_KEYS", "")),
		},
		Breaker: BreakerConfig{
			FailureThreshold: getEnvInt("BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          getEnvDuration("BREAKER_TIMEOUT", 60*time.Second),
		},
		Retry: RetryConfig{
			MaxAttempts:  getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			InitialDelay: getEnvDuration("RETRY_INITIAL_DELAY", time.Second),
			MaxDelay:     getEnvDuration("RETRY_MAX_DELAY", 60*time.Second),
			Multiplier:   getEnvFloat("RETRY_MULTIPLIER", 2.0),
		},
		Health: HealthConfig{
			CacheTTL: getEnvDuration("HEALTH_CACHE_TTL", 60*time.Second),
		},
		Selection: SelectionConfig{
			ProviderPriorities: parsePriorities(getEnv("PROVIDER_PRIORITIES", "")),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Observability: ObservabilityConfig{
			LogLevel:  getEnv("LOG_LEVEL", "info"),
			LogFormat: getEnv("LOG_FORMAT", "json"),
		},
		CatalogOverridePath: getEnv("CATALOG_OVERRIDES", ""),
	}

	timeout := getEnvDuration("PROVIDER_TIMEOUT", 30*time.Second)
	for _, def := range providerDefaults {
		key := getEnv(def.keyEnv, "")
		if key == "" {
			continue
		}
		baseURL := getEnv(strings.ToUpper(strings.ReplaceAll(def.name, "-", "_"))+"_BASE_URL", def.baseURL)
		cfg.Providers = append(cfg.Providers, ProviderConfig{
			Name:    def.name,
			BaseURL: baseURL,
			APIKey:  key,
			Timeout: timeout,
		})
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d", c.Server.Port)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if c.Retry.Multiplier < 1 {
		return fmt.Errorf("RETRY_MULTIPLIER must be at least 1")
	}
	if c.Breaker.FailureThreshold < 1 {
		return fmt.Errorf("BREAKER_FAILURE_THRESHOLD must be at least 1")
	}
	for name, p := range c.Selection.ProviderPriorities {
		if p < 0 || p > 1 {
			return fmt.Errorf("provider priority for %s out of range [0,1]: %v", name, p)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitNonEmpty(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parsePriorities(raw string) map[string]float64 {
	out := make(map[string]float64)
	for _, part := range splitNonEmpty(raw) {
		name, value, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			out[strings.TrimSpace(name)] = parsed
		}
	}
	return out
}
