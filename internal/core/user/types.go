// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

// # Value Types
//
// Parsing is the only way to obtain these types. A handler that holds an
// EmailAddress or UserName holds a value that already passed every syntactic
// rule, so the storage layer never re-validates.

// maxNameLength is the rune budget for a display name after NFC normalization.
const maxNameLength = 256

// forbiddenNameChars are rejected anywhere in a display name. They are the
// characters with meaning in URLs, JSON, and HTML contexts.
const forbiddenNameChars = `/()"<>\{}`

// EmailAddress is a syntactically valid email address. Original casing is
// preserved; the user store compares by exact string match.
type EmailAddress struct {
	value string
}

// ParseEmailAddress trims and validates a raw email string.
func ParseEmailAddress(raw string) (EmailAddress, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return EmailAddress{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldEmail, Message: "This field is required"})
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return EmailAddress{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldEmail, Message: "Must be a valid email address"})
	}
	return EmailAddress{value: trimmed}, nil
}

func (e EmailAddress) String() string { return e.value }

// UserName is a validated display name.
type UserName struct {
	value string
}

// ParseUserName trims, NFC-normalizes, and validates a raw display name.
//
// Normalization happens before the length check so that visually identical
// names occupy the same budget regardless of how the client composed them.
func ParseUserName(raw string) (UserName, error) {
	normalized := norm.NFC.String(strings.TrimSpace(raw))

	if normalized == "" {
		return UserName{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldName, Message: "This field is required"})
	}
	if utf8.RuneCountInString(normalized) > maxNameLength {
		return UserName{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldName, Message: "Maximum 256 characters"})
	}
	if strings.ContainsAny(normalized, forbiddenNameChars) {
		return UserName{}, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldName, Message: `Must not contain any of / ( ) " < > \ { }`})
	}
	return UserName{value: normalized}, nil
}

func (n UserName) String() string { return n.value }

// PasswordHash is an Argon2id PHC string produced from a plaintext that met
// the password policy. The plaintext is never retained.
type PasswordHash struct {
	value string
}

// ParsePasswordHash enforces the password policy and hashes the plaintext.
//
// Policy: byte length in [12, 255]; at least one uppercase letter, one
// lowercase letter, one digit, and one byte outside [0-9A-Za-z].
func ParsePasswordHash(plaintext string) (PasswordHash, error) {
	if err := checkPasswordPolicy(plaintext); err != nil {
		return PasswordHash{}, err
	}

	phc, err := sec.HashPassword(plaintext)
	if err != nil {
		return PasswordHash{}, apperr.Internal(err)
	}
	return PasswordHash{value: phc}, nil
}

// String returns the PHC hash, never the plaintext.
func (p PasswordHash) String() string { return p.value }

func checkPasswordPolicy(plaintext string) error {
	fail := func(message string) error {
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldPassword, Message: message})
	}

	if len(plaintext) < 12 {
		return fail("Minimum 12 characters")
	}
	if len(plaintext) > 255 {
		return fail("Maximum 255 characters")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for i := 0; i < len(plaintext); i++ {
		b := plaintext[i]
		switch {
		case b >= 'A' && b <= 'Z':
			hasUpper = true
		case b >= 'a' && b <= 'z':
			hasLower = true
		case b >= '0' && b <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return fail("Must contain an uppercase letter")
	case !hasLower:
		return fail("Must contain a lowercase letter")
	case !hasDigit:
		return fail("Must contain a digit")
	case !hasSpecial:
		return fail("Must contain a special character")
	}
	return nil
}
