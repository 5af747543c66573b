// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package verification

import (
	"time"

	"github.com/taibuivan/authgate/internal/platform/sec"
)

// EmailVerification is a single-use, time-limited claim that the holder of
// the token controls the email address.
type EmailVerification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	IsUsed    bool       `json:"is_used"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// IsValid reports whether the verification can still be consumed.
//
// All three conditions must hold: the row's own expiry is in the future, the
// embedded JWT still decodes with a live exp claim, and the token has not
// been used. The row expiry is authoritative even when it disagrees with the
// JWT claim.
func (v *EmailVerification) IsValid(codec *sec.Codec) bool {
	if v.IsUsed {
		return false
	}
	if !v.ExpiresAt.After(time.Now().UTC()) {
		return false
	}
	if _, err := sec.ParseEmailVerificationToken(codec, v.Token); err != nil {
		return false
	}
	return true
}

// Global field names for validation
const (
	FieldID     = "id"
	FieldUserID = "user_id"
	FieldToken  = "token"
	FieldBatch  = "verifications"
)
