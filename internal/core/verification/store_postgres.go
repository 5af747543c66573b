// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/internal/platform/database/schema"
	"github.com/taibuivan/authgate/internal/platform/dberr"
	"github.com/taibuivan/authgate/pkg/pagination"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func allColumns() string {
	t := schema.AuthEmailVerification
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.CreatedAt, t.UpdatedAt)
}

func scanVerification(row pgx.Row) (*EmailVerification, error) {
	v := &EmailVerification{}
	err := row.Scan(&v.ID, &v.UserID, &v.Token, &v.ExpiresAt, &v.IsUsed, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func insertQuery() string {
	t := schema.AuthEmailVerification
	return fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s
	`, t.Table, t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.CreatedAt, allColumns())
}

func (store *PostgresStore) Insert(context context.Context, v *EmailVerification) (*EmailVerification, error) {
	stored, err := scanVerification(store.db.QueryRow(context, insertQuery(),
		v.ID, v.UserID, v.Token, v.ExpiresAt, v.IsUsed))
	if err != nil {
		return nil, dberr.Wrap(err, "insert_verification")
	}
	return stored, nil
}

func (store *PostgresStore) InsertBatch(context context.Context, batch []*EmailVerification) (int64, error) {
	if len(batch) == 0 {
		return 0, apperr.ValidationError("Batch must not be empty",
			apperr.FieldError{Field: FieldBatch, Message: "At least one row is required"})
	}
	if len(batch) > constants.MaxBatchSize {
		return 0, apperr.ValidationError("Batch too large",
			apperr.FieldError{Field: FieldBatch, Message: fmt.Sprintf("Maximum %d rows per batch", constants.MaxBatchSize)})
	}

	transaction, err := store.db.Begin(context)
	if err != nil {
		return 0, dberr.Wrap(err, "begin_verification_batch")
	}
	// Rollback is a no-op once the transaction committed.
	defer func() { _ = transaction.Rollback(context) }()

	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`, t.Table, t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.CreatedAt)

	var inserted int64
	for _, v := range batch {
		cmd, err := transaction.Exec(context, query, v.ID, v.UserID, v.Token, v.ExpiresAt, v.IsUsed)
		if err != nil {
			return 0, dberr.Wrap(err, "insert_verification_batch")
		}
		inserted += cmd.RowsAffected()
	}

	if err := transaction.Commit(context); err != nil {
		return 0, dberr.Wrap(err, "commit_verification_batch")
	}
	return inserted, nil
}

func (store *PostgresStore) Upsert(context context.Context, v *EmailVerification) (*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (%s) DO UPDATE SET
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = EXCLUDED.%s,
			%s = NOW()
		RETURNING %s
	`,
		t.Table, t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.CreatedAt,
		t.ID,
		t.UserID, t.UserID,
		t.Token, t.Token,
		t.ExpiresAt, t.ExpiresAt,
		t.IsUsed, t.IsUsed,
		t.UpdatedAt,
		allColumns(),
	)

	stored, err := scanVerification(store.db.QueryRow(context, query,
		v.ID, v.UserID, v.Token, v.ExpiresAt, v.IsUsed))
	if err != nil {
		return nil, dberr.Wrap(err, "upsert_verification")
	}
	return stored, nil
}

func (store *PostgresStore) FindByID(context context.Context, id string) (*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.ID)

	v, err := scanVerification(store.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_verification_by_id")
	}
	return v, nil
}

func (store *PostgresStore) FindByToken(context context.Context, token string) (*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.Token)

	v, err := scanVerification(store.db.QueryRow(context, query, token))
	if err != nil {
		return nil, dberr.Wrap(err, "find_verification_by_token")
	}
	return v, nil
}

func (store *PostgresStore) Update(context context.Context, v *EmailVerification) (*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		t.Table, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.UpdatedAt,
		t.ID,
		allColumns(),
	)

	stored, err := scanVerification(store.db.QueryRow(context, query,
		v.ID, v.UserID, v.Token, v.ExpiresAt, v.IsUsed))
	if err != nil {
		return nil, dberr.Wrap(err, "update_verification")
	}
	return stored, nil
}

func (store *PostgresStore) Index(context context.Context, params pagination.Params) ([]*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, allColumns(), t.Table, t.ID)

	rows, err := store.db.Query(context, query, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_verifications")
	}
	defer rows.Close()

	return collectVerifications(rows)
}

func (store *PostgresStore) IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*EmailVerification, error) {
	t := schema.AuthEmailVerification

	query := fmt.Sprintf(`SELECT %s FROM %s`, allColumns(), t.Table)
	args := []any{limit}

	if after != nil {
		query += fmt.Sprintf(` WHERE (%s, %s) > ($2, $3)`, t.CreatedAt, t.ID)
		args = append(args, after.CreatedAt, after.ID)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC LIMIT $1`, t.CreatedAt, t.ID)

	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "index_verifications_cursor")
	}
	defer rows.Close()

	return collectVerifications(rows)
}

func (store *PostgresStore) IndexByUser(context context.Context, userID string, params pagination.Params) ([]*EmailVerification, error) {
	t := schema.AuthEmailVerification
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`, allColumns(), t.Table, t.UserID, t.ID)

	rows, err := store.db.Query(context, query, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_verifications_by_user")
	}
	defer rows.Close()

	return collectVerifications(rows)
}

func (store *PostgresStore) IndexByUserCursor(context context.Context, userID string, limit int64, after *pagination.Cursor) ([]*EmailVerification, error) {
	t := schema.AuthEmailVerification

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.UserID)
	args := []any{userID, limit}

	if after != nil {
		query += fmt.Sprintf(` AND (%s, %s) > ($3, $4)`, t.CreatedAt, t.ID)
		args = append(args, after.CreatedAt, after.ID)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC LIMIT $2`, t.CreatedAt, t.ID)

	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "index_verifications_by_user_cursor")
	}
	defer rows.Close()

	return collectVerifications(rows)
}

func (store *PostgresStore) DeleteByID(context context.Context, id string) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID), id)
}

func (store *PostgresStore) DeleteByToken(context context.Context, token string) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.Token), token)
}

func (store *PostgresStore) DeleteAllForUser(context context.Context, userID string) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.UserID), userID)
}

func (store *PostgresStore) DeleteExpired(context context.Context) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s WHERE %s < NOW()`, t.Table, t.ExpiresAt))
}

func (store *PostgresStore) DeleteUsed(context context.Context) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s WHERE %s`, t.Table, t.IsUsed))
}

func (store *PostgresStore) DeleteOlderThan(context context.Context, age time.Duration) (int64, error) {
	t := schema.AuthEmailVerification
	cutoff := time.Now().UTC().Add(-age)
	return store.execDelete(context,
		fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`, t.Table, t.CreatedAt), cutoff)
}

func (store *PostgresStore) DeleteByIDs(context context.Context, ids []string) (int64, error) {
	// Contract: an empty id list is 0 rows affected with no write issued.
	if len(ids) == 0 {
		return 0, nil
	}

	t := schema.AuthEmailVerification
	return store.execDelete(context,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = ANY($1)`, t.Table, t.ID), ids)
}

func (store *PostgresStore) DeleteAll(context context.Context) (int64, error) {
	t := schema.AuthEmailVerification
	return store.execDelete(context, fmt.Sprintf(`DELETE FROM %s`, t.Table))
}

func (store *PostgresStore) execDelete(context context.Context, query string, args ...any) (int64, error) {
	cmd, err := store.db.Exec(context, query, args...)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_verifications")
	}
	return cmd.RowsAffected(), nil
}

func collectVerifications(rows pgx.Rows) ([]*EmailVerification, error) {
	var verifications []*EmailVerification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_verification")
		}
		verifications = append(verifications, v)
	}
	return verifications, nil
}
