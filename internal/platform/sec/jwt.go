// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. One codec serves all four token kinds; the typed wrappers
// in token.go make "wrong kind of token" unrepresentable at call sites.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

// # Token Kinds

// TokenKind is the 'jty' claim discriminating the four JWT flavours the
// service issues.
type TokenKind string

const (
	KindAccess            TokenKind = "access"
	KindRefresh           TokenKind = "refresh"
	KindEmailVerification TokenKind = "email_verification"
	KindPasswordReset     TokenKind = "password_reset"
)

// # Claims

// TokenClaim is the canonical decoded form of every JWT the service issues.
//
// # Why a role claim?
//
// Baking the role in at issue time lets the admin interceptor authorize
// requests WITHOUT querying the database. Revocation latency is bounded by
// the short access-token lifetime.
type TokenClaim struct {
	jwt.RegisteredClaims

	// Kind discriminates access/refresh/email_verification/password_reset.
	Kind TokenKind `json:"jty"`

	// Role is the account's authorization level at issue time.
	Role UserRole `json:"rol"`
}

// NewTokenClaim fills a claim for a fresh token.
//
// All timestamps are truncated to whole seconds so that an encode/decode
// round-trip is exact: iat = nbf = now, exp = now + timeToLive,
// jti = a new UUIDv7, aud = the fixed service audience.
func NewTokenClaim(issuer string, timeToLive time.Duration, userID string, role UserRole, kind TokenKind) TokenClaim {
	now := time.Now().UTC().Truncate(time.Second)

	return TokenClaim{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Issuer:    issuer,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{constants.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		Kind: kind,
		Role: role,
	}
}

// UserID returns the 'sub' claim.
func (c TokenClaim) UserID() string { return c.Subject }

// # Codec

// Codec signs and verifies every JWT for the service using HMAC-SHA-256
// with a process-wide secret.
type Codec struct {
	secret Secret
	issuer string
}

// NewCodec constructs a [Codec]. Secret and issuer come from configuration
// and never leave this struct.
func NewCodec(secret Secret, issuer string) *Codec {
	return &Codec{secret: secret, issuer: issuer}
}

// Issuer returns the configured 'iss' value.
func (codec *Codec) Issuer() string { return codec.issuer }

// Encode signs a claim into a compact JWT string.
func (codec *Codec) Encode(claim TokenClaim) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signed, err := token.SignedString([]byte(codec.secret.Expose()))
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}
	return signed, nil
}

/*
Decode verifies a JWT string and returns its typed claim.

Validation order is fixed:

 1. signature verifies under the process secret (HS256 only);
 2. aud equals the fixed service audience;
 3. iss equals the configured issuer;
 4. nbf <= now;
 5. exp > now.

Failure of (5) maps to [apperr.TokenExpired]; (1)-(4) and any structural
error map to [apperr.InvalidToken] with a distinguishing server-side reason.
Comparisons use whole-second UTC time to match the JWT encoding.
*/
func (codec *Codec) Decode(rawToken string) (*TokenClaim, error) {

	// Claims validation is done by hand below so that the error taxonomy and
	// check order stay under our control.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claim := &TokenClaim{}
	_, err := parser.ParseWithClaims(rawToken, claim, func(token *jwt.Token) (interface{}, error) {
		return []byte(codec.secret.Expose()), nil
	})
	if err != nil {
		return nil, apperr.InvalidToken(fmt.Sprintf("token format or signature: %v", err))
	}

	if !claimsAudience(claim) {
		return nil, apperr.InvalidToken("audience mismatch")
	}

	if claim.Issuer != codec.issuer {
		return nil, apperr.InvalidToken("issuer mismatch")
	}

	now := time.Now().UTC().Truncate(time.Second)

	if claim.NotBefore != nil && claim.NotBefore.Time.After(now) {
		return nil, apperr.InvalidToken("token not yet valid")
	}

	if claim.ExpiresAt == nil || !claim.ExpiresAt.Time.After(now) {
		return nil, apperr.TokenExpired()
	}

	return claim, nil
}

// claimsAudience reports whether the fixed service audience is present.
func claimsAudience(claim *TokenClaim) bool {
	for _, aud := range claim.Audience {
		if aud == constants.TokenAudience {
			return true
		}
	}
	return false
}
