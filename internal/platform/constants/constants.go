// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire portal.

It defines default timeouts, rate limits, storage keys, and route paths that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Browser Storage: Cookie and entry names.
  - Routes: Public and guarded page paths.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "facegate-portal"
	AppTitle   = "FaceGate"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Face images arrive as multipart bodies, so this is larger than a JSON API would need.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 150 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 140 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// SessionRestoreBudget bounds how long a guard waits for browser storage
	// before rendering the loading page.
	SessionRestoreBudget = 2 * time.Second

	// ReadinessTimeout bounds every dependency check of the /ready probe.
	ReadinessTimeout = 3 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 20.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 40

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Browser Storage

const (
	// BrowserCookieName holds the signed browser identifier.
	BrowserCookieName = "fg_browser"

	// BrowserIssuer is the 'iss' claim of the browser cookie.
	BrowserIssuer = "facegate.portal"

	// StorageKeyToken is the entry holding the bearer token.
	StorageKeyToken = "authToken"

	// StorageKeyUser is the entry holding the serialized user profile.
	StorageKeyUser = "userData"

	// StorageKeyToasts is the entry holding pending toast notifications.
	StorageKeyToasts = "toasts"

	// RedisPrefixStorage namespaces browser storage hashes.
	RedisPrefixStorage = "portal:storage:"
)

// # Upload Limits

const (
	// MaxUploadBytes bounds multipart bodies carrying a face image.
	MaxUploadBytes = 10 << 20

	// MaxFrameBytes bounds a JSON auto-capture frame.
	MaxFrameBytes = 8 << 20
)

// # Routes

const (
	RouteHome         = "/"
	RouteLogin        = "/login"
	RouteSignup       = "/signup"
	RouteLogout       = "/logout"
	RouteDashboard    = "/dashboard"
	RouteAddPeople    = "/add-people"
	RouteAddUser      = "/add-user"
	RouteScanPeople   = "/scan-people"
	RouteScan         = "/scan"
	RouteRemovePeople = "/remove-people"
	RouteContact      = "/contact"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
