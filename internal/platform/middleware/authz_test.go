// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/ctxutil"
	"github.com/taibuivan/authgate/internal/platform/middleware"
	"github.com/taibuivan/authgate/internal/platform/sec"
)

const testUserID = "0194276e-0000-7000-8000-000000000001"

func testCodec() *sec.Codec {
	return sec.NewCodec(sec.NewSecret("unit-test-signing-secret"), "authgate.test")
}

func issueToken(t *testing.T, codec *sec.Codec, role sec.UserRole, kind sec.TokenKind, ttl time.Duration) string {
	t.Helper()
	claim := sec.NewTokenClaim(codec.Issuer(), ttl, testUserID, role, kind)

	switch kind {
	case sec.KindAccess:
		token, err := sec.NewAccessToken(codec, claim)
		require.NoError(t, err)
		return token.String()
	case sec.KindRefresh:
		token, err := sec.NewRefreshToken(codec, claim)
		require.NoError(t, err)
		return token.String()
	default:
		t.Fatalf("unsupported kind %q", kind)
		return ""
	}
}

// echoHandler records whether it was reached and which claim it saw.
type echoHandler struct {
	called bool
	claim  *sec.TokenClaim
}

func (h *echoHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	h.called = true
	h.claim = ctxutil.GetClaim(request.Context())
	writer.WriteHeader(http.StatusOK)
}

/*
TestAuthenticate_ValidAccessToken verifies that a well-formed access token is
decoded and its claim injected into the request context.
*/
func TestAuthenticate_ValidAccessToken(t *testing.T) {
	codec := testCodec()
	handler := &echoHandler{}
	chain := middleware.Authenticate(codec)(handler)

	raw := issueToken(t, codec, sec.RoleUser, sec.KindAccess, time.Minute)
	request := httptest.NewRequest("GET", "/api/v1/auth/sessions", nil)
	request.Header.Set("Authorization", "Bearer "+raw)

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, handler.called)
	require.NotNil(t, handler.claim)
	assert.Equal(t, testUserID, handler.claim.UserID())
}

/*
TestAuthenticate_AccessTokenHeader verifies the fallback access_token header
used by non-browser consumers.
*/
func TestAuthenticate_AccessTokenHeader(t *testing.T) {
	codec := testCodec()
	handler := &echoHandler{}
	chain := middleware.Authenticate(codec)(handler)

	raw := issueToken(t, codec, sec.RoleAdmin, sec.KindAccess, time.Minute)
	request := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
	request.Header.Set("access_token", raw)

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, handler.claim)
	assert.Equal(t, sec.RoleAdmin, handler.claim.Role)
}

/*
TestAuthenticate_RejectsRefreshToken ensures a refresh token cannot be used
as an API credential even though it is correctly signed.
*/
func TestAuthenticate_RejectsRefreshToken(t *testing.T) {
	codec := testCodec()
	handler := &echoHandler{}
	chain := middleware.Authenticate(codec)(handler)

	raw := issueToken(t, codec, sec.RoleUser, sec.KindRefresh, time.Hour)
	request := httptest.NewRequest("GET", "/api/v1/auth/sessions", nil)
	request.Header.Set("Authorization", "Bearer "+raw)

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, handler.called)
}

/*
TestAuthenticate_ExpiredToken pins the distinct TOKEN_EXPIRED code.
*/
func TestAuthenticate_ExpiredToken(t *testing.T) {
	codec := testCodec()
	handler := &echoHandler{}
	chain := middleware.Authenticate(codec)(handler)

	raw := issueToken(t, codec, sec.RoleUser, sec.KindAccess, -time.Minute)
	request := httptest.NewRequest("GET", "/api/v1/auth/sessions", nil)
	request.Header.Set("Authorization", "Bearer "+raw)

	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), apperr.CodeTokenExpired)
	assert.False(t, handler.called)
}

/*
TestAuthenticate_Anonymous lets requests without a credential pass through
so that public routes (login, register) stay reachable.
*/
func TestAuthenticate_Anonymous(t *testing.T) {
	codec := testCodec()
	handler := &echoHandler{}
	chain := middleware.Authenticate(codec)(handler)

	request := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
	recorder := httptest.NewRecorder()
	chain.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, handler.called)
	assert.Nil(t, handler.claim)
}

/*
TestRequireAdmin covers the admin gate for anonymous, plain-user, and admin
callers. Non-admin rejections are 401, not 403.
*/
func TestRequireAdmin(t *testing.T) {
	codec := testCodec()

	tests := []struct {
		name       string
		role       sec.UserRole
		withToken  bool
		wantStatus int
	}{
		{"anonymous", sec.RoleGuest, false, http.StatusUnauthorized},
		{"plain_user", sec.RoleUser, true, http.StatusUnauthorized},
		{"admin", sec.RoleAdmin, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &echoHandler{}
			chain := middleware.Authenticate(codec)(middleware.RequireAdmin(handler))

			request := httptest.NewRequest("GET", "/api/v1/admin/users", nil)
			if tt.withToken {
				raw := issueToken(t, codec, tt.role, sec.KindAccess, time.Minute)
				request.Header.Set("Authorization", "Bearer "+raw)
			}

			recorder := httptest.NewRecorder()
			chain.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, handler.called)
		})
	}
}
