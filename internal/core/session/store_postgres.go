// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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
	t := schema.AuthSession
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.UserID, t.LoggedInAt, t.LoginIP, t.ExpiresOn,
		t.RefreshToken, t.IsActive, t.LoggedOutAt, t.LogoutIP)
}

func scanSession(row pgx.Row) (*Session, error) {
	s := &Session{}
	err := row.Scan(&s.ID, &s.UserID, &s.LoggedInAt, &s.LoginIP, &s.ExpiresOn,
		&s.RefreshToken, &s.IsActive, &s.LoggedOutAt, &s.LogoutIP)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// nullableIP converts an empty string into SQL NULL for inet columns.
func nullableIP(ip string) any {
	if ip == "" {
		return nil
	}
	return ip
}

func (store *PostgresStore) Insert(context context.Context, s *Session) (*Session, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`,
		t.Table, t.ID, t.UserID, t.LoggedInAt, t.LoginIP, t.ExpiresOn, t.RefreshToken, t.IsActive,
		allColumns(),
	)

	var loginIP any
	if s.LoginIP != nil {
		loginIP = *s.LoginIP
	}

	stored, err := scanSession(store.db.QueryRow(context, query,
		s.ID, s.UserID, s.LoggedInAt, loginIP, s.ExpiresOn, s.RefreshToken, s.IsActive))
	if err != nil {
		return nil, dberr.Wrap(err, "insert_session")
	}
	return stored, nil
}

func (store *PostgresStore) FindByID(context context.Context, id string) (*Session, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.ID)

	s, err := scanSession(store.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_session_by_id")
	}
	return s, nil
}

func (store *PostgresStore) FindByToken(context context.Context, refreshToken string) (*Session, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.RefreshToken)

	s, err := scanSession(store.db.QueryRow(context, query, refreshToken))
	if err != nil {
		return nil, dberr.Wrap(err, "find_session_by_token")
	}
	return s, nil
}

func (store *PostgresStore) Index(context context.Context, params pagination.Params) ([]*Session, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, allColumns(), t.Table, t.ID)

	rows, err := store.db.Query(context, query, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_sessions")
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (store *PostgresStore) IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Session, error) {
	t := schema.AuthSession

	// Sessions have no separate created_at; logged_in_at is the insert time.
	query := fmt.Sprintf(`SELECT %s FROM %s`, allColumns(), t.Table)
	args := []any{limit}

	if after != nil {
		query += fmt.Sprintf(` WHERE (%s, %s) > ($2, $3)`, t.LoggedInAt, t.ID)
		args = append(args, after.CreatedAt, after.ID)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC LIMIT $1`, t.LoggedInAt, t.ID)

	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "index_sessions_cursor")
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (store *PostgresStore) IndexByUser(context context.Context, userID string, params pagination.Params) ([]*Session, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`, allColumns(), t.Table, t.UserID, t.ID)

	rows, err := store.db.Query(context, query, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_sessions_by_user")
	}
	defer rows.Close()

	return collectSessions(rows)
}

func (store *PostgresStore) RevokeByID(context context.Context, id string, logoutIP string) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`
		UPDATE %s SET %s = false, %s = NOW(), %s = $2
		WHERE %s = $1
	`, t.Table, t.IsActive, t.LoggedOutAt, t.LogoutIP, t.ID)

	cmd, err := store.db.Exec(context, query, id, nullableIP(logoutIP))
	if err != nil {
		return 0, dberr.Wrap(err, "revoke_session")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) RevokeAllForUser(context context.Context, userID string, logoutIP string) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`
		UPDATE %s SET %s = false, %s = NOW(), %s = $2
		WHERE %s = $1
	`, t.Table, t.IsActive, t.LoggedOutAt, t.LogoutIP, t.UserID)

	cmd, err := store.db.Exec(context, query, userID, nullableIP(logoutIP))
	if err != nil {
		return 0, dberr.Wrap(err, "revoke_user_sessions")
	}
	return cmd.RowsAffected(), nil
}

// RevokeAll is the administrative sweep: every session row, no filter.
func (store *PostgresStore) RevokeAll(context context.Context) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`UPDATE %s SET %s = false, %s = NOW()`, t.Table, t.IsActive, t.LoggedOutAt)

	cmd, err := store.db.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "revoke_all_sessions")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) DeleteByID(context context.Context, id string) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	cmd, err := store.db.Exec(context, query, id)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_session")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) DeleteAllForUser(context context.Context, userID string) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.UserID)

	cmd, err := store.db.Exec(context, query, userID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_user_sessions")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) DeleteExpired(context context.Context) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < NOW()`, t.Table, t.ExpiresOn)

	cmd, err := store.db.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_expired_sessions")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) DeleteAll(context context.Context) (int64, error) {
	t := schema.AuthSession
	query := fmt.Sprintf(`DELETE FROM %s`, t.Table)

	cmd, err := store.db.Exec(context, query)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_all_sessions")
	}
	return cmd.RowsAffected(), nil
}

func collectSessions(rows pgx.Rows) ([]*Session, error) {
	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_session")
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}
