// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/internal/platform/ctxutil"
	"github.com/taibuivan/authgate/internal/platform/sec"
	"github.com/taibuivan/authgate/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Claim extracts the authenticated token claim from the request context.

Returns nil if the request is not authenticated.
*/
func Claim(request *http.Request) *sec.TokenClaim {
	return ctxutil.GetClaim(request.Context())
}

/*
RequiredClaim ensures the request is authenticated and returns the token claim.

Returns:
  - *sec.TokenClaim: The authenticated token claim
  - error: apperr.Unauthenticated if the request is not authenticated
*/
func RequiredClaim(request *http.Request) (*sec.TokenClaim, error) {

	// Get the decoded claim
	claim := ctxutil.GetClaim(request.Context())

	// If the request is not authenticated, return an error
	if claim == nil {
		return nil, apperr.Unauthenticated("Authentication required")
	}

	return claim, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthenticated if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get the decoded claim
	claim, err := RequiredClaim(request)

	// If the request is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claim.UserID(), nil
}

/*
ClientIP extracts the caller's IPv4 address from proxy headers or the socket.

Only IPv4 addresses are recorded in the login journal; IPv6 callers yield an
empty string and the row is stored without an address.
*/
func ClientIP(request *http.Request) string {
	candidates := []string{
		request.Header.Get(constants.HeaderXRealIP),
		firstForwarded(request.Header.Get(constants.HeaderXForwardedFor)),
	}

	if host, _, err := net.SplitHostPort(request.RemoteAddr); err == nil {
		candidates = append(candidates, host)
	} else {
		candidates = append(candidates, request.RemoteAddr)
	}

	for _, candidate := range candidates {
		ip := net.ParseIP(strings.TrimSpace(candidate))
		if ip == nil {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ""
}

// firstForwarded returns the left-most entry of an X-Forwarded-For list.
func firstForwarded(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, ",", 2)
	return strings.TrimSpace(parts[0])
}
