// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies that a hashed password verifies against
the original plaintext and rejects any other input.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("Str0ng!Password")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=15000,t=2,p=1$"))
	assert.True(t, sec.CheckPasswordHash("Str0ng!Password", hash))
	assert.False(t, sec.CheckPasswordHash("Str0ng!Passwore", hash))
	assert.False(t, sec.CheckPasswordHash("", hash))
}

/*
TestHashPassword_SaltUniqueness verifies each hash carries a fresh salt, so
equal passwords never produce equal PHC strings.
*/
func TestHashPassword_SaltUniqueness(t *testing.T) {
	first, err := sec.HashPassword("Str0ng!Password")
	require.NoError(t, err)
	second, err := sec.HashPassword("Str0ng!Password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_Malformed verifies that a corrupted stored hash is a
verification failure, not a distinct error the caller could branch on.
*/
func TestCheckPasswordHash_Malformed(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"bcrypt", "$2a$10$N9qo8uLOickgx2ZMRZoMye"},
		{"truncated", "$argon2id$v=19$m=15000"},
		{"bad_base64_salt", "$argon2id$v=19$m=15000,t=2,p=1$!!!$AAAA"},
		{"bad_version", "$argon2id$v=16$m=15000,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, sec.CheckPasswordHash("whatever", tt.hash))
		})
	}
}

/*
TestDummyCheck verifies the timing-equalizer always fails without erroring.
*/
func TestDummyCheck(t *testing.T) {
	assert.False(t, sec.DummyCheck("any password at all"))
}

/*
TestUserRole verifies the parse set and the hierarchy used by the admin gate.
*/
func TestUserRole(t *testing.T) {
	for _, valid := range []string{"admin", "user", "guest"} {
		role, err := sec.ParseUserRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(role))
	}

	_, err := sec.ParseUserRole("superuser")
	assert.Error(t, err)

	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleUser))
	assert.True(t, sec.RoleUser.AtLeast(sec.RoleGuest))
	assert.False(t, sec.RoleGuest.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("unknown").AtLeast(sec.RoleGuest))
}
