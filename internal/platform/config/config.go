// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first when present, so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (storage, backend client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Session Store Kinds

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the FaceGate portal.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Recognition backend (login, signup, people, recognize)
	BackendURL     string        `env:"BACKEND_URL"     envDefault:"http://localhost:5000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"120s"`

	// Browser storage
	SessionStore     string        `env:"SESSION_STORE"      envDefault:"memory"`
	SessionSecret    string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL       time.Duration `env:"SESSION_TTL"        envDefault:"720h"`
	SessionPurgeCron string        `env:"SESSION_PURGE_CRON" envDefault:"*/15 * * * *"`
	CookieSecure     bool          `env:"COOKIE_SECURE"      envDefault:"false"`

	// Key-Value Cache (Redis), required when SessionStore is "redis"
	RedisURL          string        `env:"REDIS_URL"`
	RedisPoolSize     int           `env:"REDIS_POOL_SIZE"     envDefault:"8"`
	RedisMinIdleConns int           `env:"REDIS_MIN_IDLE"      envDefault:"1"`
	RedisMaxIdleConns int           `env:"REDIS_MAX_IDLE"      envDefault:"4"`
	RedisMaxRetries   int           `env:"REDIS_MAX_RETRIES"   envDefault:"3"`
	RedisDialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT"  envDefault:"3s"`
	RedisIOTimeout    time.Duration `env:"REDIS_IO_TIMEOUT"    envDefault:"2s"`

	// Relational Database (PostgreSQL), required when SessionStore is "postgres"
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath overrides the embedded SQL migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Auto-capture state of idle browsers is dropped after ScanIdleTTL.
	ScanInterval  time.Duration `env:"SCAN_INTERVAL"   envDefault:"3s"`
	ScanIdleTTL   time.Duration `env:"SCAN_IDLE_TTL"   envDefault:"10m"`
	ScanSweepCron string        `env:"SCAN_SWEEP_CRON" envDefault:"*/5 * * * *"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate checks cross-field constraints that struct tags cannot express.
func (c *Config) validate() error {
	switch c.SessionStore {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_STORE=redis")
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when SESSION_STORE=postgres")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) origin, got %q", c.BackendURL)
	}

	if c.ScanInterval <= 0 {
		return errors.New("SCAN_INTERVAL must be positive")
	}

	return nil
}

// # Kiosk Scanner

// ScannerConfig holds the settings of the kiosk scanner command, which needs
// no browser storage.
type ScannerConfig struct {
	BackendURL     string        `env:"BACKEND_URL"     envDefault:"http://localhost:5000"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"120s"`
	BackendToken   string        `env:"BACKEND_TOKEN"`
	Debug          bool          `env:"DEBUG"           envDefault:"false"`

	ScanInterval time.Duration `env:"SCAN_INTERVAL" envDefault:"3s"`

	// Exactly one camera source is required.
	CameraSnapshotURL string        `env:"CAMERA_SNAPSHOT_URL"`
	CameraTimeout     time.Duration `env:"CAMERA_TIMEOUT" envDefault:"5s"`
	CameraDir         string        `env:"CAMERA_DIR"`
}

// LoadScanner parses environment variables into a [ScannerConfig].
func LoadScanner() (*ScannerConfig, error) {
	_ = godotenv.Load()

	cfg := &ScannerConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	switch {
	case cfg.CameraSnapshotURL == "" && cfg.CameraDir == "":
		return nil, errors.New("config: CAMERA_SNAPSHOT_URL or CAMERA_DIR is required")
	case cfg.CameraSnapshotURL != "" && cfg.CameraDir != "":
		return nil, errors.New("config: set only one of CAMERA_SNAPSHOT_URL and CAMERA_DIR")
	case cfg.ScanInterval <= 0:
		return nil, errors.New("config: SCAN_INTERVAL must be positive")
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits EXTRA_ORIGINS into a trimmed list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
