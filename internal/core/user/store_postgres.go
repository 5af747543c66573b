// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

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

// allColumns is the SELECT list shared by every read query.
func allColumns() string {
	t := schema.AuthUser
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Email, t.Name, t.PasswordHash, t.Role, t.IsActive, t.IsVerified, t.CreatedOn)
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.IsVerified, &u.CreatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (store *PostgresStore) Insert(context context.Context, u *User) (*User, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING %s
	`,
		t.Table, t.ID, t.Email, t.Name, t.PasswordHash, t.Role, t.IsActive, t.IsVerified, t.CreatedOn,
		allColumns(),
	)

	stored, err := scanUser(store.db.QueryRow(context, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive, u.IsVerified))
	if err != nil {
		return nil, dberr.Wrap(err, "insert_user")
	}
	return stored, nil
}

// InsertMany bulk-inserts users in a single batch round-trip.
// Used by admin tooling and test seeding.
func (store *PostgresStore) InsertMany(context context.Context, users []*User) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}

	t := schema.AuthUser
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`,
		t.Table, t.ID, t.Email, t.Name, t.PasswordHash, t.Role, t.IsActive, t.IsVerified, t.CreatedOn,
	)

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(query, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive, u.IsVerified)
	}

	results := store.db.SendBatch(context, batch)
	defer results.Close()

	var inserted int64
	for range users {
		cmd, err := results.Exec()
		if err != nil {
			return 0, dberr.Wrap(err, "insert_many_users")
		}
		inserted += cmd.RowsAffected()
	}
	return inserted, nil
}

func (store *PostgresStore) FindByID(context context.Context, id string) (*User, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.ID)

	u, err := scanUser(store.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_id")
	}
	return u, nil
}

func (store *PostgresStore) FindByEmail(context context.Context, email string) (*User, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, allColumns(), t.Table, t.Email)

	u, err := scanUser(store.db.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_email")
	}
	return u, nil
}

func (store *PostgresStore) Update(context context.Context, u *User) (*User, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1
		RETURNING %s
	`,
		t.Table, t.Email, t.Name, t.PasswordHash, t.Role, t.IsActive, t.IsVerified,
		t.ID,
		allColumns(),
	)

	stored, err := scanUser(store.db.QueryRow(context, query,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive, u.IsVerified))
	if err != nil {
		return nil, dberr.Wrap(err, "update_user")
	}
	return stored, nil
}

func (store *PostgresStore) DeleteByID(context context.Context, id string) (int64, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	cmd, err := store.db.Exec(context, query, id)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_user")
	}
	return cmd.RowsAffected(), nil
}

func (store *PostgresStore) Index(context context.Context, params pagination.Params) ([]*User, error) {
	t := schema.AuthUser
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2
	`, allColumns(), t.Table, t.ID)

	rows, err := store.db.Query(context, query, params.Limit, params.Offset)
	if err != nil {
		return nil, dberr.Wrap(err, "index_users")
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (store *PostgresStore) IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*User, error) {
	t := schema.AuthUser

	query := fmt.Sprintf(`SELECT %s FROM %s`, allColumns(), t.Table)
	args := []any{limit}

	if after != nil {
		// Strict composite > on (created_on, id); ties on the timestamp
		// resolve by id so a page boundary never duplicates or skips rows.
		query += fmt.Sprintf(` WHERE (%s, %s) > ($2, $3)`, t.CreatedOn, t.ID)
		args = append(args, after.CreatedAt, after.ID)
	}

	query += fmt.Sprintf(` ORDER BY %s ASC, %s ASC LIMIT $1`, t.CreatedOn, t.ID)

	rows, err := store.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "index_users_cursor")
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]*User, error) {
	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}
	return users, nil
}
