// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (auth context, request ID, logger).
// Using a private, unexported type for keys prevents collisions with third-party
// packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyAuth is the context key for the per-browser auth context.
	KeyAuth key = "auth"

	// KeyBrowser is the context key for the per-browser storage handle.
	KeyBrowser key = "browser"

	// KeyBrowserKey is the context key for the hashed browser identifier.
	KeyBrowserKey key = "browser_key"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyRequestMeta is the context key for mutable per-request log metadata.
	KeyRequestMeta key = "request_meta"
)
