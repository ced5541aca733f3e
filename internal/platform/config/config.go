// Package config builds the process configuration from the environment so
// main stays lean. Parsing uses struct tags; defaults suit local development
// and must be overridden in production.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `env:"PORTAL_ADDR" envDefault:":8080"`
}

// Auth captures token issuing configuration.
type Auth struct {
	// JWTSigningKey signs access tokens. The default exists only so the
	// service boots locally.
	JWTSigningKey  string        `env:"JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`
}

// Postgres captures database connection configuration. An empty URL selects
// the in-memory stores.
type Postgres struct {
	URL          string        `env:"DATABASE_URL"`
	MaxOpenConns int           `env:"DATABASE_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DATABASE_MAX_IDLE_CONNS" envDefault:"5"`
	ConnLifetime time.Duration `env:"DATABASE_CONN_LIFETIME" envDefault:"30m"`
}

// Redis captures the revocation store configuration. An empty URL selects
// the in-memory revocation store.
type Redis struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Config is the root configuration for the portal gateway.
type Config struct {
	Server   Server
	Auth     Auth
	Postgres Postgres
	Redis    Redis
}

// FromEnv parses the full configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
