package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	StoreBackend string `mapstructure:"STORE_BACKEND"`
	StoreFile    string `mapstructure:"STORE_FILE"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBMaxConns   int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns   int32  `mapstructure:"DB_MIN_CONNS"`

	OuraBaseURL           string `mapstructure:"OURA_BASE_URL"`
	OuraTimeoutSeconds    int    `mapstructure:"OURA_TIMEOUT_SECONDS"`
	OuraVerificationToken string `mapstructure:"OURA_VERIFICATION_TOKEN"`
	OuraClientSecret      string `mapstructure:"OURA_CLIENT_SECRET"`
	OuraDemoKey           string `mapstructure:"OURA_DEMO_KEY"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "3011")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("STORE_FILE", "data/oura-keys.json")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("OURA_BASE_URL", "https://api.ouraring.com/v2")
	v.SetDefault("OURA_TIMEOUT_SECONDS", 10)
	v.SetDefault("OURA_DEMO_KEY", "OURA_DEMO_KEY")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("STORE_BACKEND")
	v.BindEnv("STORE_FILE")
	v.BindEnv("REDIS_URL")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("OURA_BASE_URL")
	v.BindEnv("OURA_TIMEOUT_SECONDS")
	v.BindEnv("OURA_VERIFICATION_TOKEN")
	v.BindEnv("OURA_CLIENT_SECRET")
	v.BindEnv("OURA_DEMO_KEY")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// ResolvedStoreBackend returns the effective credential store backend. If
// STORE_BACKEND is explicitly set, it is returned. Otherwise, the backend is
// inferred:
//   - REDIS_URL set    → "redis"
//   - DATABASE_URL set → "postgres"
//   - Otherwise        → "file" (single JSON file, development fallback)
func (c *Config) ResolvedStoreBackend() string {
	if c.StoreBackend != "" {
		return c.StoreBackend
	}
	if c.RedisURL != "" {
		return "redis"
	}
	if c.DatabaseURL != "" {
		return "postgres"
	}
	return "file"
}

// Validate checks that the configuration is safe to run. Webhook secrets are
// required in production so that signature verification cannot silently
// accept payloads signed with the empty key.
func (c *Config) Validate() error {
	backend := c.ResolvedStoreBackend()
	switch backend {
	case "memory", "file":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORE_BACKEND is \"redis\"")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is \"postgres\"")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be \"memory\", \"file\", \"redis\", or \"postgres\", got %q", backend)
	}

	if c.IsProduction() {
		if c.OuraVerificationToken == "" {
			return fmt.Errorf("OURA_VERIFICATION_TOKEN is required in production")
		}
		if c.OuraClientSecret == "" {
			return fmt.Errorf("OURA_CLIENT_SECRET is required in production")
		}
	}

	if c.OuraTimeoutSeconds <= 0 {
		return fmt.Errorf("OURA_TIMEOUT_SECONDS must be positive, got %d", c.OuraTimeoutSeconds)
	}

	return nil
}
