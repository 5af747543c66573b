// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package middleware provides the HTTP middleware chain for the Authgate API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, and CORS.
package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/internal/platform/ctxutil"
	"github.com/taibuivan/authgate/internal/platform/respond"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

// Authenticate extracts and verifies the access token on every request.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>', falling back to the
//     'access_token' header used by non-browser service consumers.
//  2. If absent, the request proceeds as anonymous; route-level guards
//     decide whether that is acceptable.
//  3. If present, decode and verify the JWT via the [sec.Codec].
//  4. Reject tokens of any kind other than access. A refresh or
//     verification token is never a valid credential for an API call.
//  5. Inject [*sec.TokenClaim] into the request context for downstream use.
//
// # Parameters
//   - codec: The token codec holding the signing secret.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(codec *sec.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			raw, present := bearerToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !present {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			token, err := sec.ParseAccessToken(codec, raw)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			claim := token.Claim()
			ctx := ctxutil.WithClaim(request.Context(), &claim)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.TokenClaim] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claim := ctxutil.GetClaim(request.Context())
		if claim == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests whose caller does not hold the admin role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// The rejection is a 401 rather than a 403 so that probing the admin surface
// with a valid non-admin token reveals nothing beyond "not authorized".
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claim := ctxutil.GetClaim(request.Context())

		// ── 1. Authentication Check ───────────────────────────────────────
		if claim == nil {
			respond.Error(writer, request, apperr.Unauthenticated("Authentication required"))
			return
		}

		// ── 2. Authorization Check ────────────────────────────────────────
		if !claim.Role.AtLeast(sec.RoleAdmin) {
			respond.Error(writer, request, apperr.Unauthenticated("Admin role required"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

// bearerToken pulls the raw token string from the request headers.
//
// The boolean result distinguishes "no credential offered" from "credential
// offered but empty"; an empty Authorization header counts as absent.
func bearerToken(request *http.Request) (string, bool) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1]), true
		}
		// Malformed Authorization header is treated as an offered, invalid credential.
		return "", true
	}

	if raw := request.Header.Get(constants.HeaderAccessToken); raw != "" {
		return raw, true
	}

	return "", false
}
