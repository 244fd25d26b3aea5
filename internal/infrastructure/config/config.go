package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	LifetimeDays          int    `env:"SESSION_LIFETIME_DAYS,          default=7"`
	RenewalThresholdHours int    `env:"SESSION_RENEWAL_THRESHOLD_HOURS, default=1"`
	CookieName            string `env:"SESSION_COOKIE_NAME,            default=session_token"`
	PurgeIntervalMinutes  int    `env:"SESSION_PURGE_INTERVAL_MINUTES, default=60"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// IsProduction reports whether the service runs with production settings
// (pure JSON logs, Secure cookies).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Lifetime is the configured session lifetime as a duration.
func (c SessionConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeDays) * 24 * time.Hour
}

// RenewalThreshold is the window before expiry in which a session is renewed.
func (c SessionConfig) RenewalThreshold() time.Duration {
	return time.Duration(c.RenewalThresholdHours) * time.Hour
}

// PurgeInterval is the cadence of the expired-session sweeper.
func (c SessionConfig) PurgeInterval() time.Duration {
	return time.Duration(c.PurgeIntervalMinutes) * time.Minute
}
