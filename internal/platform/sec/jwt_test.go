// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

const (
	testIssuer = "authgate.test"
	testUserID = "0194276e-0000-7000-8000-000000000001"
)

func testCodec() *sec.Codec {
	return sec.NewCodec(sec.NewSecret("unit-test-signing-secret"), testIssuer)
}

/*
TestCodec_RoundTrip verifies that decode(encode(claim)) returns the claim
unchanged, up to whole-second truncation.
*/
func TestCodec_RoundTrip(t *testing.T) {
	codec := testCodec()

	claim := sec.NewTokenClaim(testIssuer, 5*time.Minute, testUserID, sec.RoleUser, sec.KindAccess)
	raw, err := codec.Encode(claim)
	require.NoError(t, err)

	decoded, err := codec.Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, claim.ID, decoded.ID)
	assert.Equal(t, sec.KindAccess, decoded.Kind)
	assert.Equal(t, sec.RoleUser, decoded.Role)
	assert.Equal(t, testIssuer, decoded.Issuer)
	assert.Equal(t, testUserID, decoded.UserID())
	assert.True(t, claim.IssuedAt.Time.Equal(decoded.IssuedAt.Time))
	assert.True(t, claim.NotBefore.Time.Equal(decoded.NotBefore.Time))
	assert.True(t, claim.ExpiresAt.Time.Equal(decoded.ExpiresAt.Time))
}

/*
TestCodec_ClaimDefaults verifies the claim constructor contract:
iat = nbf = now, exp = now + ttl, fixed audience, fresh jti.
*/
func TestCodec_ClaimDefaults(t *testing.T) {
	before := time.Now().UTC().Truncate(time.Second)
	claim := sec.NewTokenClaim(testIssuer, 2*time.Hour, testUserID, sec.RoleAdmin, sec.KindRefresh)
	after := time.Now().UTC().Add(time.Second)

	require.NotNil(t, claim.IssuedAt)
	assert.True(t, claim.IssuedAt.Time.Equal(claim.NotBefore.Time))
	assert.True(t, claim.ExpiresAt.Time.Equal(claim.IssuedAt.Time.Add(2*time.Hour)))
	assert.False(t, claim.IssuedAt.Time.Before(before))
	assert.False(t, claim.IssuedAt.Time.After(after))
	assert.Equal(t, jwt.ClaimStrings{"authentication_service"}, claim.Audience)
	assert.NotEmpty(t, claim.ID)
	assert.Equal(t, claim.IssuedAt.Time, claim.IssuedAt.Time.Truncate(time.Second))
}

/*
TestCodec_Decode_Failures walks the rejection cases: foreign secret, foreign
issuer, wrong audience, not-yet-valid, and garbage input. All must map to
INVALID_TOKEN, never TOKEN_EXPIRED.
*/
func TestCodec_Decode_Failures(t *testing.T) {
	codec := testCodec()

	t.Run("wrong_secret", func(t *testing.T) {
		other := sec.NewCodec(sec.NewSecret("a-different-secret"), testIssuer)
		raw, err := other.Encode(sec.NewTokenClaim(testIssuer, time.Minute, testUserID, sec.RoleUser, sec.KindAccess))
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		raw, err := codec.Encode(sec.NewTokenClaim("somebody.else", time.Minute, testUserID, sec.RoleUser, sec.KindAccess))
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)
	})

	t.Run("wrong_audience", func(t *testing.T) {
		claim := sec.NewTokenClaim(testIssuer, time.Minute, testUserID, sec.RoleUser, sec.KindAccess)
		claim.Audience = jwt.ClaimStrings{"somebody_else"}
		raw, err := codec.Encode(claim)
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)
	})

	t.Run("not_yet_valid", func(t *testing.T) {
		claim := sec.NewTokenClaim(testIssuer, time.Hour, testUserID, sec.RoleUser, sec.KindAccess)
		claim.NotBefore = jwt.NewNumericDate(time.Now().UTC().Add(30 * time.Minute))
		raw, err := codec.Encode(claim)
		require.NoError(t, err)

		_, err = codec.Decode(raw)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)
	})

	t.Run("garbage_input", func(t *testing.T) {
		_, err := codec.Decode("not.a.jwt")
		require.Error(t, err)
		assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)
	})
}

/*
TestCodec_Decode_Expired verifies that an aged-out token maps to the distinct
TOKEN_EXPIRED case regardless of any server-side state.
*/
func TestCodec_Decode_Expired(t *testing.T) {
	codec := testCodec()

	claim := sec.NewTokenClaim(testIssuer, time.Hour, testUserID, sec.RoleUser, sec.KindAccess)
	claim.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-1 * time.Second))
	raw, err := codec.Encode(claim)
	require.NoError(t, err)

	_, err = codec.Decode(raw)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeTokenExpired, apperr.As(err).Code)
}

/*
TestTokenWrappers_KindMismatch verifies that each typed wrapper rejects a
token of any other kind, both at encode time and at parse time.
*/
func TestTokenWrappers_KindMismatch(t *testing.T) {
	codec := testCodec()

	refreshClaim := sec.NewTokenClaim(testIssuer, time.Hour, testUserID, sec.RoleUser, sec.KindRefresh)

	// Encoding a refresh claim through the access wrapper must fail.
	_, err := sec.NewAccessToken(codec, refreshClaim)
	require.Error(t, err)

	// Parsing a refresh JWT through the access wrapper must fail.
	refresh, err := sec.NewRefreshToken(codec, refreshClaim)
	require.NoError(t, err)

	_, err = sec.ParseAccessToken(codec, refresh.String())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthorized, apperr.As(err).Code)

	// The matching wrapper accepts it.
	parsed, err := sec.ParseRefreshToken(codec, refresh.String())
	require.NoError(t, err)
	assert.Equal(t, refreshClaim.ID, parsed.Claim().ID)
}

/*
TestTokenWrappers_AllKinds exercises the remaining wrapper pairs.
*/
func TestTokenWrappers_AllKinds(t *testing.T) {
	codec := testCodec()

	verification, err := sec.NewEmailVerificationToken(codec,
		sec.NewTokenClaim(testIssuer, 24*time.Hour, testUserID, sec.RoleUser, sec.KindEmailVerification))
	require.NoError(t, err)

	_, err = sec.ParseEmailVerificationToken(codec, verification.String())
	assert.NoError(t, err)
	_, err = sec.ParsePasswordResetToken(codec, verification.String())
	assert.Error(t, err)

	reset, err := sec.NewPasswordResetToken(codec,
		sec.NewTokenClaim(testIssuer, time.Hour, testUserID, sec.RoleUser, sec.KindPasswordReset))
	require.NoError(t, err)

	_, err = sec.ParsePasswordResetToken(codec, reset.String())
	assert.NoError(t, err)
}

/*
TestSecret_Redaction confirms the secret container never leaks its value
through formatting or structured logging.
*/
func TestSecret_Redaction(t *testing.T) {
	secret := sec.NewSecret("super-sensitive")

	assert.Equal(t, "[REDACTED]", secret.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", secret))
	assert.Equal(t, "[REDACTED]", secret.LogValue().String())
	assert.NotContains(t, fmt.Sprintf("%#v", secret), "super-sensitive")
	assert.Equal(t, "super-sensitive", secret.Expose())
}
