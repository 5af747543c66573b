// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/pkg/pagination"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestFromRequest covers defaults, explicit values, negatives, and the 64-bit
overflow rejection.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int64
		wantOffset int64
		wantErr    string
	}{
		{"defaults", "", 10, 0, ""},
		{"explicit", "?limit=25&offset=50", 25, 50, ""},
		{"zero_limit", "?limit=0", 0, 0, ""},
		{"huge_but_accepted", "?limit=5000", 5000, 0, ""},
		{"negative_limit", "?limit=-1", 0, 0, apperr.CodeValidation},
		{"negative_offset", "?offset=-7", 0, 0, apperr.CodeValidation},
		{"overflow_limit", "?limit=9223372036854775808", 0, 0, apperr.CodeValidation},
		{"garbage", "?limit=ten", 0, 0, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/sessions"+tt.query, nil)
			params, err := pagination.FromRequest(request, discardLogger())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, apperr.As(err).Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

/*
TestFromRequest_OverflowMessage pins the exact client-facing message for the
2^63 rejection.
*/
func TestFromRequest_OverflowMessage(t *testing.T) {
	request := httptest.NewRequest("GET", "/users?limit=9223372036854775808&offset=0", nil)
	_, err := pagination.FromRequest(request, discardLogger())

	require.Error(t, err)
	assert.Equal(t, "pagination value too large", apperr.As(err).Message)
}

/*
TestCursorFromRequest verifies the all-or-nothing cursor contract.
*/
func TestCursorFromRequest(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/verifications", nil)
		cursor, err := pagination.CursorFromRequest(request)
		require.NoError(t, err)
		assert.Nil(t, cursor)
	})

	t.Run("full", func(t *testing.T) {
		request := httptest.NewRequest("GET",
			"/verifications?after_created_at=2025-01-01T00:00:00Z&after_id=0194276e-0000-7000-8000-000000000001", nil)
		cursor, err := pagination.CursorFromRequest(request)
		require.NoError(t, err)
		require.NotNil(t, cursor)
		assert.Equal(t, "0194276e-0000-7000-8000-000000000001", cursor.ID)
		assert.Equal(t, 2025, cursor.CreatedAt.Year())
	})

	t.Run("half_specified", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/verifications?after_id=abc", nil)
		_, err := pagination.CursorFromRequest(request)
		require.Error(t, err)
		assert.Equal(t, apperr.CodeValidation, apperr.As(err).Code)
	})

	t.Run("bad_timestamp", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/verifications?after_created_at=yesterday&after_id=abc", nil)
		_, err := pagination.CursorFromRequest(request)
		require.Error(t, err)
	})
}
