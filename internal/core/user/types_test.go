// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/core/user"
	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

/*
TestParseEmailAddress covers trimming, the empty rejection, and syntactic
validation. Casing must be preserved as-is.
*/
func TestParseEmailAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "alice@example.test", "alice@example.test", false},
		{"trimmed", "  alice@example.test  ", "alice@example.test", false},
		{"casing_preserved", "Alice@Example.Test", "Alice@Example.Test", false},
		{"empty", "", "", true},
		{"whitespace_only", "   ", "", true},
		{"missing_at", "alice.example.test", "", true},
		{"missing_domain", "alice@", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := user.ParseEmailAddress(tt.input)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, email.String())
		})
	}
}

/*
TestParseUserName covers normalization, the rune budget, and the forbidden
character set.
*/
func TestParseUserName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Alice Liddell", false},
		{"unicode", "山田 太郎", false},
		{"max_length", strings.Repeat("a", 256), false},
		{"too_long", strings.Repeat("a", 257), true},
		{"empty", "", true},
		{"whitespace_only", "  ", true},
		{"slash", "alice/bob", true},
		{"parens", "alice (admin)", true},
		{"quote", `alice "the great"`, true},
		{"angle_brackets", "<script>", true},
		{"backslash", `alice\bob`, true},
		{"braces", "{alice}", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := user.ParseUserName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

/*
TestParseUserName_NFC verifies that a decomposed sequence normalizes to its
composed form before length checking.
*/
func TestParseUserName_NFC(t *testing.T) {
	// "e" followed by U+0301 combining acute accent composes to U+00E9.
	name, err := user.ParseUserName("Amélie")
	require.NoError(t, err)
	assert.Equal(t, "Amélie", name.String())
}

/*
TestParsePasswordHash enforces the password policy and verifies that the
resulting PHC hash matches the original plaintext.
*/
func TestParsePasswordHash(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		wantErr   bool
	}{
		{"valid", "Str0ng!Password", false},
		{"too_short", "Sh0rt!pass", true},
		{"too_long", "Aa1!" + strings.Repeat("x", 252), true},
		{"no_upper", "str0ng!password", true},
		{"no_lower", "STR0NG!PASSWORD", true},
		{"no_digit", "Strong!Password", true},
		{"no_special", "Str0ngPassword", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := user.ParsePasswordHash(tt.plaintext)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash.String(), "$argon2id$"))
			assert.True(t, sec.CheckPasswordHash(tt.plaintext, hash.String()))
			assert.False(t, sec.CheckPasswordHash("other-password", hash.String()))
		})
	}
}
