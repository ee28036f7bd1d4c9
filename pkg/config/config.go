package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for feedforge-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords, keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// MigrationsPath is the directory containing SQL migrations.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis cache configuration (optional)
	Redis RedisConfig `yaml:"redis"`

	// AI provider configuration
	AI AIConfig `yaml:"ai"`

	// LinkedIn OAuth and publishing configuration
	LinkedIn LinkedInConfig `yaml:"linkedin"`

	// Object storage configuration for media assets
	Storage StorageConfig `yaml:"storage"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// JWTSecret signs and verifies session tokens (HS256).
	// Server will fail to start if this is not set.
	JWTSecret string `yaml:"-" env:"AUTH_JWT_SECRET"` // Secret - not in YAML

	// SessionSecret keys the OAuth state cookie store.
	SessionSecret string `yaml:"-" env:"AUTH_SESSION_SECRET"` // Secret - not in YAML
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"feedforge"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"feedforge_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	// Pool recycling knobs, passed through to pgxpool.
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"PGMAX_CONN_LIFETIME" env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"PGMAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password),
		c.Host, c.Port, c.Database, c.SSLMode)
}

// RedisConfig holds Redis cache configuration. Leave Host empty to run
// without a cache.
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// AIConfig holds provider selection and per-provider settings.
type AIConfig struct {
	// Provider selects the text-generation backend: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// Temperature for text generation.
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.7"`

	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
}

// OpenAIConfig holds OpenAI-compatible endpoint settings. Image generation
// always goes through this endpoint regardless of the text provider.
type OpenAIConfig struct {
	BaseURL    string `yaml:"base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model      string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o"`
	ImageModel string `yaml:"image_model" env:"OPENAI_IMAGE_MODEL" env-default:"dall-e-3"`
	APIKey     string `yaml:"-" env:"OPENAI_API_KEY"` // Secret - not in YAML
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Model  string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-20250514"`
	APIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
}

// LinkedInConfig holds OAuth client settings for publishing.
type LinkedInConfig struct {
	ClientID     string `yaml:"client_id" env:"LINKEDIN_CLIENT_ID" env-default:""`
	ClientSecret string `yaml:"-" env:"LINKEDIN_CLIENT_SECRET"` // Secret - not in YAML
	RedirectURL  string `yaml:"redirect_url" env:"LINKEDIN_REDIRECT_URL" env-default:""`

	// TokenEncryptionKey encrypts stored OAuth tokens at rest (AES-256-GCM).
	// Leave empty to store tokens unencrypted.
	TokenEncryptionKey string `yaml:"-" env:"LINKEDIN_TOKEN_ENCRYPTION_KEY"` // Secret - not in YAML
}

// StorageConfig holds object storage settings for media assets.
type StorageConfig struct {
	BaseURL string `yaml:"base_url" env:"STORAGE_BASE_URL" env-default:""`
	Bucket  string `yaml:"bucket" env:"STORAGE_BUCKET" env-default:"media"`
	APIKey  string `yaml:"-" env:"STORAGE_API_KEY"` // Secret - not in YAML
}

// Load reads configuration from config.yaml (if present) and the
// environment, validates it, and derives defaults.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown AI provider %q (want openai or anthropic)", c.AI.Provider)
	}
	return nil
}
