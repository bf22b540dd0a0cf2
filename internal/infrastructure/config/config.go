package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SecretKey signs access tokens; the service refuses to start without it.
	SecretKey string `env:"SECRET_KEY"`
	Algorithm string `env:"ALGORITHM, default=HS256"`
	TokenTTL  int    `env:"ACCESS_TOKEN_TTL_MINUTES, default=30"`

	External ExternalConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type ExternalConfig struct {
	BaseURL        string `env:"EXTERNAL_API_BASE_URL, default=https://api-onecloud.multicloud.tivit.com/fake"`
	TimeoutSeconds int    `env:"EXTERNAL_API_TIMEOUT_SECONDS, default=30"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=teste_tivit"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("config: SECRET_KEY is required")
	}
	return &cfg, nil
}
