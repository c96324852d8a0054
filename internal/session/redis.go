// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/facegate/internal/platform/constants"
)

// maxUpdateAttempts bounds optimistic retries of [redisStorage.Update].
const maxUpdateAttempts = 8

// RedisBackend stores each namespace as one Redis hash. Every access slides
// the hash TTL, so idle browsers expire without [RedisBackend.Purge].
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend creates a backend over an already connected client.
func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{client: client, ttl: ttl}
}

// Open implements [Backend].
func (b *RedisBackend) Open(browserID string) Storage {
	return &redisStorage{backend: b, key: constants.RedisPrefixStorage + storageKey(browserID)}
}

// Purge implements [Backend]. Redis expires keys itself.
func (b *RedisBackend) Purge(_ context.Context) (int64, error) { return 0, nil }

// Ping implements [Backend].
func (b *RedisBackend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("session_redis_ping_failed: %w", err)
	}
	return nil
}

// Name implements [Backend].
func (b *RedisBackend) Name() string { return "redis" }

type redisStorage struct {
	backend *RedisBackend
	key     string
}

func (s *redisStorage) Get(ctx context.Context, key string) (string, error) {
	var get *redis.StringCmd

	_, err := s.backend.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, s.key, key)
		pipe.Expire(ctx, s.key, s.backend.ttl)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session_redis_get_failed: %w", err)
	}
	return get.Val(), nil
}

func (s *redisStorage) GetAll(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	var values *redis.SliceCmd
	_, err := s.backend.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		values = pipe.HMGet(ctx, s.key, keys...)
		pipe.Expire(ctx, s.key, s.backend.ttl)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("session_redis_get_all_failed: %w", err)
	}
	return present(keys, values.Val()), nil
}

/*
Update runs fn inside a WATCH/MULTI transaction on the namespace hash. Any
write to the hash between the read and EXEC aborts the transaction, which is
retried from a fresh read up to [maxUpdateAttempts] times.
*/
func (s *redisStorage) Update(ctx context.Context, keys []string, fn UpdateFunc) error {
	transaction := func(tx *redis.Tx) error {
		values, err := tx.HMGet(ctx, s.key, keys...).Result()
		if err != nil {
			return err
		}
		current := present(keys, values)

		next, err := fn(current)
		if err != nil {
			return err
		}

		var set []any
		var remove []string
		for _, key := range keys {
			if value, ok := next[key]; ok {
				set = append(set, key, value)
			} else if _, had := current[key]; had {
				remove = append(remove, key)
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(set) > 0 {
				pipe.HSet(ctx, s.key, set...)
				pipe.Expire(ctx, s.key, s.backend.ttl)
			}
			if len(remove) > 0 {
				pipe.HDel(ctx, s.key, remove...)
			}
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := s.backend.client.Watch(ctx, transaction, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("session_redis_update_failed: %w", err)
		}
		return nil
	}
	return ErrConflict
}

// present pairs HMGET values with their keys, dropping missing fields.
func present(keys []string, values []any) map[string]string {
	entries := make(map[string]string, len(keys))
	for i, value := range values {
		if text, ok := value.(string); ok && i < len(keys) {
			entries[keys[i]] = text
		}
	}
	return entries
}

func (s *redisStorage) SetAll(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	values := make([]any, 0, len(entries)*2)
	for key, value := range entries {
		values = append(values, key, value)
	}

	// HSET applies every field atomically; MULTI keeps the TTL refresh with it.
	_, err := s.backend.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, values...)
		pipe.Expire(ctx, s.key, s.backend.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("session_redis_set_failed: %w", err)
	}
	return nil
}

func (s *redisStorage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.backend.client.HDel(ctx, s.key, keys...).Err(); err != nil {
		return fmt.Errorf("session_redis_remove_failed: %w", err)
	}
	return nil
}
