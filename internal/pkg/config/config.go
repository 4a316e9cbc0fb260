package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// Timezone is the IANA zone used to date clinical visits.
	Timezone string `env:"TIMEZONE,  default=America/Argentina/Buenos_Aires"`

	Session   SessionConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Visits    VisitConfig
	Stats     StatsConfig
	Bootstrap BootstrapConfig
}

type SessionConfig struct {
	Secret     string        `env:"SESSION_SECRET"`
	TTL        time.Duration `env:"SESSION_TTL, default=8h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=huellitas"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type VisitConfig struct {
	Workers int `env:"VISIT_WORKERS, default=8"`
}

type StatsConfig struct {
	Schedule          string `env:"STATS_SCHEDULE,      default=@every 1m"`
	LowStockThreshold int    `env:"LOW_STOCK_THRESHOLD, default=5"`
}

// BootstrapConfig names the administrator created when the directory is empty.
type BootstrapConfig struct {
	Username string `env:"BOOTSTRAP_ADMIN_USERNAME, default=admin"`
	Password string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the settings that have no usable default.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("config: SESSION_SECRET is required")
	}
	if c.IsProduction() && len(c.Session.Secret) < 32 {
		return errors.New("config: SESSION_SECRET must be at least 32 characters in production")
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// LoadWith reads configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
