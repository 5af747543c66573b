// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, token lifetimes, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Tokens: Default lifetimes and the fixed JWT audience.
  - Transport: Header names and redis key prefixes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "authgate-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Tokens

const (
	// TokenAudience is the fixed 'aud' claim on every JWT this service issues.
	TokenAudience = "authentication_service"

	// DefaultAccessTokenTTL keeps the blast radius of a leaked access token small.
	DefaultAccessTokenTTL = 5 * time.Minute

	// DefaultRefreshTokenTTL bounds how long a session can live without re-authentication.
	DefaultRefreshTokenTTL = 2 * time.Hour

	// DefaultVerificationTokenTTL is long-lived (24 hours) as users might not
	// check email immediately.
	DefaultVerificationTokenTTL = 24 * time.Hour

	// DefaultResetTokenTTL is short-lived (1 hour) for security.
	DefaultResetTokenTTL = 1 * time.Hour
)

// # Pagination

const (
	// DefaultQueryLimit is the number of rows returned when the caller omits a limit.
	DefaultQueryLimit = 10

	// DefaultQueryOffset is the starting offset when the caller omits one.
	DefaultQueryOffset = 0

	// QueryLimitWarnThreshold triggers a server-side warning log; the request
	// is still served.
	QueryLimitWarnThreshold = 1000

	// MaxBatchSize is the hard cap on rows per bulk insert.
	MaxBatchSize = 1000
)

// # Transport Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"

	// HeaderAccessToken carries the access token on admin calls, mirroring the
	// gRPC metadata key of the same name.
	HeaderAccessToken = "access_token"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixResetToken = "auth:reset_token:"
)
