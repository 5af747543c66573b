// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package verification

import (
	"context"
	"time"

	"github.com/taibuivan/authgate/pkg/pagination"
)

// Store is the persistence contract for email verifications.
type Store interface {
	Insert(context context.Context, v *EmailVerification) (*EmailVerification, error)

	// InsertBatch writes every row inside one transaction; on any per-row
	// failure nothing is committed. Empty batches and batches above the hard
	// cap are rejected with a validation error before touching the database.
	InsertBatch(context context.Context, batch []*EmailVerification) (int64, error)

	// Upsert inserts or, on id conflict, updates every mutable column and
	// sets updated_at to now.
	Upsert(context context.Context, v *EmailVerification) (*EmailVerification, error)

	FindByID(context context.Context, id string) (*EmailVerification, error)
	FindByToken(context context.Context, token string) (*EmailVerification, error)
	Update(context context.Context, v *EmailVerification) (*EmailVerification, error)

	Index(context context.Context, params pagination.Params) ([]*EmailVerification, error)
	IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*EmailVerification, error)
	IndexByUser(context context.Context, userID string, params pagination.Params) ([]*EmailVerification, error)
	IndexByUserCursor(context context.Context, userID string, limit int64, after *pagination.Cursor) ([]*EmailVerification, error)

	DeleteByID(context context.Context, id string) (int64, error)
	DeleteByToken(context context.Context, token string) (int64, error)
	DeleteAllForUser(context context.Context, userID string) (int64, error)
	DeleteExpired(context context.Context) (int64, error)
	DeleteUsed(context context.Context) (int64, error)
	DeleteOlderThan(context context.Context, age time.Duration) (int64, error)

	// DeleteByIDs removes the given rows in a single statement. An empty
	// slice returns 0 without performing any write.
	DeleteByIDs(context context.Context, ids []string) (int64, error)

	DeleteAll(context context.Context) (int64, error)
}
