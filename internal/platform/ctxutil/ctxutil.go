// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taibuivan/facegate/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Request Metadata

// RequestMeta collects values discovered by inner handlers that the outer
// access log reports once the request finishes.
type RequestMeta struct {
	mu     sync.Mutex
	userID string
}

// WithRequestMeta attaches a fresh [RequestMeta] and returns it.
func WithRequestMeta(ctx context.Context) (context.Context, *RequestMeta) {
	meta := &RequestMeta{}
	return context.WithValue(ctx, ctxkey.KeyRequestMeta, meta), meta
}

// SetUserID records the authenticated user for the access log.
// It is a no-op when the context carries no [RequestMeta].
func SetUserID(ctx context.Context, userID string) {
	meta, ok := ctx.Value(ctxkey.KeyRequestMeta).(*RequestMeta)
	if !ok {
		return
	}
	meta.mu.Lock()
	meta.userID = userID
	meta.mu.Unlock()
}

// UserID returns the recorded user, or "" for anonymous requests.
func (meta *RequestMeta) UserID() string {
	meta.mu.Lock()
	defer meta.mu.Unlock()
	return meta.userID
}
