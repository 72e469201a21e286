package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"8080"`
	MongoDBURI      string `envconfig:"MONGODB_URI"`
	MongoDBPassword string `envconfig:"MONGODB_PASSWORD"`
	MongoDBDatabase string `envconfig:"MONGODB_DATABASE" default:"devevent"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	AuthSecret   string        `envconfig:"AUTH_SECRET"`
	AuthTokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"720h"`
	AuthJWKSURL  string        `envconfig:"AUTH_JWKS_URL"`

	CloudinaryCloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `envconfig:"CLOUDINARY_API_SECRET"`

	RedisURL      string        `envconfig:"REDIS_URL"`
	StatsCacheTTL time.Duration `envconfig:"STATS_CACHE_TTL" default:"60s"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.AuthSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET is required")
	}
	if cfg.AuthTokenTTL <= 0 {
		return nil, fmt.Errorf("AUTH_TOKEN_TTL must be positive")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// HasCloudinary reports whether event image uploads can be enabled.
func (c *Config) HasCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}
