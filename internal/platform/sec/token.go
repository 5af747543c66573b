// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"github.com/taibuivan/authgate/internal/platform/apperr"
)

// # Typed Token Wrappers
//
// Four distinct newtypes over the encoded JWT string, one per [TokenKind].
// Each can only be constructed from a claim or string whose jty matches, so
// presenting a refresh token where an access token is required is a type
// error at the call site, not a runtime check in the handler.

// AccessToken is a short-lived JWT proving the caller's identity for a single call.
type AccessToken struct {
	raw   string
	claim TokenClaim
}

// RefreshToken is the longer-lived JWT a client exchanges for a new pair.
// It is always backed by a session row.
type RefreshToken struct {
	raw   string
	claim TokenClaim
}

// EmailVerificationToken is the single-use JWT mailed to prove email ownership.
type EmailVerificationToken struct {
	raw   string
	claim TokenClaim
}

// PasswordResetToken is the single-use JWT mailed for the forgot-password flow.
type PasswordResetToken struct {
	raw   string
	claim TokenClaim
}

// # Construction From Claims

// NewAccessToken encodes a claim of kind [KindAccess].
func NewAccessToken(codec *Codec, claim TokenClaim) (AccessToken, error) {
	raw, err := encodeKind(codec, claim, KindAccess)
	return AccessToken{raw: raw, claim: claim}, err
}

// NewRefreshToken encodes a claim of kind [KindRefresh].
func NewRefreshToken(codec *Codec, claim TokenClaim) (RefreshToken, error) {
	raw, err := encodeKind(codec, claim, KindRefresh)
	return RefreshToken{raw: raw, claim: claim}, err
}

// NewEmailVerificationToken encodes a claim of kind [KindEmailVerification].
func NewEmailVerificationToken(codec *Codec, claim TokenClaim) (EmailVerificationToken, error) {
	raw, err := encodeKind(codec, claim, KindEmailVerification)
	return EmailVerificationToken{raw: raw, claim: claim}, err
}

// NewPasswordResetToken encodes a claim of kind [KindPasswordReset].
func NewPasswordResetToken(codec *Codec, claim TokenClaim) (PasswordResetToken, error) {
	raw, err := encodeKind(codec, claim, KindPasswordReset)
	return PasswordResetToken{raw: raw, claim: claim}, err
}

// # Construction From Strings

// ParseAccessToken decodes and kind-checks an access token string.
func ParseAccessToken(codec *Codec, rawToken string) (AccessToken, error) {
	claim, err := decodeKind(codec, rawToken, KindAccess)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{raw: rawToken, claim: *claim}, nil
}

// ParseRefreshToken decodes and kind-checks a refresh token string.
func ParseRefreshToken(codec *Codec, rawToken string) (RefreshToken, error) {
	claim, err := decodeKind(codec, rawToken, KindRefresh)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{raw: rawToken, claim: *claim}, nil
}

// ParseEmailVerificationToken decodes and kind-checks an email-verification token string.
func ParseEmailVerificationToken(codec *Codec, rawToken string) (EmailVerificationToken, error) {
	claim, err := decodeKind(codec, rawToken, KindEmailVerification)
	if err != nil {
		return EmailVerificationToken{}, err
	}
	return EmailVerificationToken{raw: rawToken, claim: *claim}, nil
}

// ParsePasswordResetToken decodes and kind-checks a password-reset token string.
func ParsePasswordResetToken(codec *Codec, rawToken string) (PasswordResetToken, error) {
	claim, err := decodeKind(codec, rawToken, KindPasswordReset)
	if err != nil {
		return PasswordResetToken{}, err
	}
	return PasswordResetToken{raw: rawToken, claim: *claim}, nil
}

// # Accessors

func (t AccessToken) String() string            { return t.raw }
func (t AccessToken) Claim() TokenClaim         { return t.claim }
func (t RefreshToken) String() string           { return t.raw }
func (t RefreshToken) Claim() TokenClaim        { return t.claim }
func (t EmailVerificationToken) String() string { return t.raw }
func (t EmailVerificationToken) Claim() TokenClaim {
	return t.claim
}
func (t PasswordResetToken) String() string    { return t.raw }
func (t PasswordResetToken) Claim() TokenClaim { return t.claim }

// # Shared Helpers

// encodeKind refuses to sign a claim whose jty does not match the wrapper.
func encodeKind(codec *Codec, claim TokenClaim, kind TokenKind) (string, error) {
	if claim.Kind != kind {
		return "", apperr.InvalidToken(fmt.Sprintf("wrong kind: have %q, want %q", claim.Kind, kind))
	}
	return codec.Encode(claim)
}

// decodeKind decodes via the codec then enforces the wrapper's kind.
func decodeKind(codec *Codec, rawToken string, kind TokenKind) (*TokenClaim, error) {
	claim, err := codec.Decode(rawToken)
	if err != nil {
		return nil, err
	}
	if claim.Kind != kind {
		return nil, apperr.InvalidToken(fmt.Sprintf("wrong kind: have %q, want %q", claim.Kind, kind))
	}
	return claim, nil
}
