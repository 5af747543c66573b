// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Two navigation styles are supported and live side by side:
//
//   - Offset: classic limit/offset, ordered by id ascending. Retained for
//     administrative compatibility.
//   - Cursor: keyset pagination ordered by (created_at, id) ascending with a
//     strict composite '>' on the last-seen pair. Preferred for new callers
//     because it stays stable under concurrent inserts.
package pagination

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
)

// Params holds the parsed limit and offset from a request's query string.
type Params struct {
	Limit  int64
	Offset int64
}

// Defaults returns the configured fallback page shape.
func Defaults() Params {
	return Params{Limit: constants.DefaultQueryLimit, Offset: constants.DefaultQueryOffset}
}

// Cursor identifies the last-seen row of the previous page.
//
// A cursor is either absent (first page) or fully specified. The store
// queries with a strict composite comparison:
// (created_at, id) > (cursor.CreatedAt, cursor.ID).
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Limit  int64 `json:"limit"`
	Offset int64 `json:"offset"`
	Count  int   `json:"count"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(params Params, count int) Meta {
	return Meta{Limit: params.Limit, Offset: params.Offset, Count: count}
}

/*
FromRequest parses "limit" and "offset" query parameters.

# Contract

  - Missing parameters fall back to the service defaults.
  - Negative values are a VALIDATION_ERROR.
  - Values that overflow a signed 64-bit integer are rejected with
    "pagination value too large".
  - limit > 1000 is accepted but logged as a warning: oversized pages are a
    smell, not a protocol violation.
*/
func FromRequest(request *http.Request, logger *slog.Logger) (Params, error) {
	params := Defaults()

	limit, err := parseInt64Param(request, "limit", params.Limit)
	if err != nil {
		return Params{}, err
	}

	offset, err := parseInt64Param(request, "offset", params.Offset)
	if err != nil {
		return Params{}, err
	}

	if limit > constants.QueryLimitWarnThreshold {
		logger.Warn("pagination_limit_excessive",
			slog.Int64("limit", limit),
			slog.String("path", request.URL.Path),
		)
	}

	return Params{Limit: limit, Offset: offset}, nil
}

/*
CursorFromRequest parses the "after_created_at" (RFC 3339) and "after_id"
query parameters into a [Cursor].

Returns (nil, nil) when neither is present; a half-specified cursor is a
VALIDATION_ERROR.
*/
func CursorFromRequest(request *http.Request) (*Cursor, error) {
	rawCreatedAt := request.URL.Query().Get("after_created_at")
	rawID := request.URL.Query().Get("after_id")

	if rawCreatedAt == "" && rawID == "" {
		return nil, nil
	}

	if rawCreatedAt == "" || rawID == "" {
		return nil, apperr.ValidationError("A cursor requires both after_created_at and after_id")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, rawCreatedAt)
	if err != nil {
		return nil, apperr.ValidationError("after_created_at must be an RFC 3339 timestamp")
	}

	return &Cursor{CreatedAt: createdAt, ID: rawID}, nil
}

// parseInt64Param parses one non-negative integer query parameter.
func parseInt64Param(request *http.Request, key string, defaultValue int64) (int64, error) {
	raw := request.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// strconv reports both garbage and 64-bit overflow here; overflow is
		// the interesting case for the API contract.
		if numError, ok := err.(*strconv.NumError); ok && numError.Err == strconv.ErrRange {
			return 0, apperr.ValidationError("pagination value too large")
		}
		return 0, apperr.ValidationError("Pagination parameters must be integers",
			apperr.FieldError{Field: key, Message: "Must be a non-negative integer"})
	}

	if value < 0 {
		return 0, apperr.ValidationError("Pagination parameters must not be negative",
			apperr.FieldError{Field: key, Message: "Must be a non-negative integer"})
	}

	return value, nil
}
