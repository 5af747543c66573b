// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/authgate/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Postgres SQLSTATE mapping
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.ConstraintViolation(pgErr.ConstraintName, columnFor(pgErr), "Already exists", true)
		case pgerrcode.ForeignKeyViolation:
			return apperr.ConstraintViolation(pgErr.ConstraintName, columnFor(pgErr), "Referenced resource does not exist", false)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return apperr.ConstraintViolation(pgErr.ConstraintName, columnFor(pgErr), "Constraint violated", false)
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Storage(err)
}

// columnFor extracts the offending column name when Postgres reports one.
func columnFor(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	return pgErr.ConstraintName
}
