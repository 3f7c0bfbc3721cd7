package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Backend names.
const (
	BackendHosted     = "hosted"
	BackendSelfHosted = "selfhosted"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	Backend   string `env:"BACKEND,   default=hosted"`

	CORSOrigins       []string      `env:"CORS_ORIGINS"`
	SessionTTL        time.Duration `env:"SESSION_TTL,        default=24h"`
	SerializerWorkers int           `env:"SERIALIZER_WORKERS, default=8"`

	Hosted HostedConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

type HostedConfig struct {
	URL     string        `env:"HOSTED_URL"`
	AnonKey string        `env:"HOSTED_ANON_KEY"`
	Timeout time.Duration `env:"HOSTED_TIMEOUT, default=10s"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=grocery"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Development reports whether the service runs in a developer environment.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Validate checks cross-field requirements envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendHosted:
		if c.Hosted.URL == "" || c.Hosted.AnonKey == "" {
			return fmt.Errorf("HOSTED_URL and HOSTED_ANON_KEY are required for the %s backend", BackendHosted)
		}
	case BackendSelfHosted:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the %s backend", BackendSelfHosted)
		}
	default:
		return fmt.Errorf("unknown BACKEND %q", c.Backend)
	}
	if c.SerializerWorkers <= 0 {
		return fmt.Errorf("SERIALIZER_WORKERS must be positive, got %d", c.SerializerWorkers)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads and validates configuration from lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
