// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package login

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
	t := schema.AuthLogin
	return fmt.Sprintf("%s, %s, %s, %s", t.ID, t.UserID, t.LoginOn, t.LoginIP)
}

func scanLogin(row pgx.Row) (*Login, error) {
	l := &Login{}
	if err := row.Scan(&l.ID, &l.UserID, &l.LoginOn, &l.LoginIP); err != nil {
		return nil, err
	}
	return l, nil
}

func (store *PostgresStore) Insert(context context.Context, l *Login) (*Login, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`, t.Table, t.ID, t.UserID, t.LoginOn, t.LoginIP, allColumns())

	var loginIP any
	if l.LoginIP != nil {
		loginIP = *l.LoginIP
	}

	stored, err := scanLogin(store.db.QueryRow(context, query, l.ID, l.UserID, l.LoginOn, loginIP))
	if err != nil {
		return nil, dberr.Wrap(err, "insert_login")
	}
	return stored, nil
}

func (store *PostgresStore) FindByID(context context.Context, id string) (*Login, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.ID)

	l, err := scanLogin(store.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_login_by_id")
	}
	return l, nil
}

func (store *PostgresStore) Index(context context.Context, params pagination.Params) ([]*Login, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, allColumns(), t.Table, t.ID)

	rows, err := store.db.Query(context, query, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_logins")
	}
	defer rows.Close()

	return collectLogins(rows)
}

func (store *PostgresStore) IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Login, error) {
	t := schema.AuthLogin

	// The journal has no separate created_at; login_on is the insert time.
	query := fmt.Sprintf(`SELECT %s FROM %s`, allColumns(), t.Table)
	args := []any{limit}

	if after != nil {
		query += fmt.Sprintf(` WHERE (%s, %s) > ($2, $3)`, t.LoginOn, t.ID)
		args = append(args, after.CreatedAt, after.ID)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC LIMIT $1`, t.LoginOn, t.ID)

	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "index_logins_cursor")
	}
	defer rows.Close()

	return collectLogins(rows)
}

func (store *PostgresStore) IndexByUser(context context.Context, userID string, params pagination.Params) ([]*Login, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
		LIMIT $2 OFFSET $3
	`, allColumns(), t.Table, t.UserID, t.ID)

	rows, err := store.db.Query(context, query, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_logins_by_user")
	}
	defer rows.Close()

	return collectLogins(rows)
}

func (store *PostgresStore) Update(context context.Context, l *Login) (*Login, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1
		RETURNING %s
	`, t.Table, t.UserID, t.LoginOn, t.LoginIP, t.ID, allColumns())

	var loginIP any
	if l.LoginIP != nil {
		loginIP = *l.LoginIP
	}

	stored, err := scanLogin(store.db.QueryRow(context, query, l.ID, l.UserID, l.LoginOn, loginIP))
	if err != nil {
		return nil, dberr.Wrap(err, "update_login")
	}
	return stored, nil
}

func (store *PostgresStore) DeleteByID(context context.Context, id string) (int64, error) {
	t := schema.AuthLogin
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	cmd, err := store.db.Exec(context, query, id)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_login")
	}
	return cmd.RowsAffected(), nil
}

func collectLogins(rows pgx.Rows) ([]*Login, error) {
	var logins []*Login
	for rows.Next() {
		l, err := scanLogin(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_login")
		}
		logins = append(logins, l)
	}
	return logins, nil
}
