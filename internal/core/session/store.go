// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"

	"github.com/taibuivan/authgate/pkg/pagination"
)

// Store is the persistence contract for refresh-token sessions.
//
// Revocation operations target every matching row regardless of prior state;
// there is no legal mutation of a session other than revoking it.
type Store interface {
	Insert(context context.Context, s *Session) (*Session, error)
	FindByID(context context.Context, id string) (*Session, error)
	FindByToken(context context.Context, refreshToken string) (*Session, error)
	Index(context context.Context, params pagination.Params) ([]*Session, error)
	IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Session, error)
	IndexByUser(context context.Context, userID string, params pagination.Params) ([]*Session, error)
	RevokeByID(context context.Context, id string, logoutIP string) (int64, error)
	RevokeAllForUser(context context.Context, userID string, logoutIP string) (int64, error)
	RevokeAll(context context.Context) (int64, error)
	DeleteByID(context context.Context, id string) (int64, error)
	DeleteAllForUser(context context.Context, userID string) (int64, error)
	DeleteExpired(context context.Context) (int64, error)
	DeleteAll(context context.Context) (int64, error)
}
