// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the shared Redis connection behind SESSION_STORE=redis.

Every browser namespace (token, profile, pending toasts) lives in one Redis
hash whose TTL slides on each access, so abandoned browsers expire on their
own. Pool sizing and timeouts come from [Settings], which the portal fills
from REDIS_* environment variables.
*/
package redis

import (
	stdctx "context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// Settings tunes the client on top of what the URL carries.
// Zero fields keep the go-redis default.
type Settings struct {
	PoolSize     int
	MinIdleConns int
	MaxIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	IOTimeout    time.Duration
}

// Validate rejects settings go-redis would silently misinterpret.
func (s Settings) Validate() error {
	switch {
	case s.PoolSize < 0, s.MinIdleConns < 0, s.MaxIdleConns < 0:
		return errors.New("redis: pool sizes must not be negative")
	case s.PoolSize > 0 && s.MinIdleConns > s.PoolSize:
		return fmt.Errorf("redis: min idle conns %d exceeds pool size %d", s.MinIdleConns, s.PoolSize)
	case s.MaxIdleConns > 0 && s.MinIdleConns > s.MaxIdleConns:
		return fmt.Errorf("redis: min idle conns %d exceeds max idle conns %d", s.MinIdleConns, s.MaxIdleConns)
	case s.DialTimeout < 0, s.IOTimeout < 0:
		return errors.New("redis: timeouts must not be negative")
	}
	return nil
}

// Options parses redisURL and applies settings. Query parameters in the URL
// (pool_size, dial_timeout, ...) lose to non-zero settings.
func Options(redisURL string, settings Settings) (*redis.Options, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if settings.PoolSize > 0 {
		options.PoolSize = settings.PoolSize
	}
	if settings.MinIdleConns > 0 {
		options.MinIdleConns = settings.MinIdleConns
	}
	if settings.MaxIdleConns > 0 {
		options.MaxIdleConns = settings.MaxIdleConns
	}
	if settings.MaxRetries != 0 {
		options.MaxRetries = settings.MaxRetries
	}
	if settings.DialTimeout > 0 {
		options.DialTimeout = settings.DialTimeout
	}
	if settings.IOTimeout > 0 {
		options.ReadTimeout = settings.IOTimeout
		options.WriteTimeout = settings.IOTimeout
	}

	// Shown in CLIENT LIST.
	if options.ClientName == "" {
		options.ClientName = "facegate-portal"
	}

	return options, nil
}

// NewClient connects to redisURL and pings it before returning.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - settings: Pool and timeout overrides.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, settings Settings, logger *slog.Logger) (*redis.Client, error) {
	options, err := Options(redisURL, settings)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
		slog.Int("min_idle", options.MinIdleConns),
		slog.Duration("io_timeout", options.ReadTimeout),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
