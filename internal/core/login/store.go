// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package login

import (
	"context"

	"github.com/taibuivan/authgate/pkg/pagination"
)

// Store is the persistence contract for the login journal.
type Store interface {
	Insert(context context.Context, l *Login) (*Login, error)
	FindByID(context context.Context, id string) (*Login, error)
	Index(context context.Context, params pagination.Params) ([]*Login, error)
	IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Login, error)
	IndexByUser(context context.Context, userID string, params pagination.Params) ([]*Login, error)
	Update(context context.Context, l *Login) (*Login, error)
	DeleteByID(context context.Context, id string) (int64, error)
}
