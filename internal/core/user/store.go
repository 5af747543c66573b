// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"

	"github.com/taibuivan/authgate/pkg/pagination"
)

// Store is the persistence contract for identity records.
type Store interface {
	Insert(context context.Context, u *User) (*User, error)
	InsertMany(context context.Context, users []*User) (int64, error)
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)
	Update(context context.Context, u *User) (*User, error)
	DeleteByID(context context.Context, id string) (int64, error)
	Index(context context.Context, params pagination.Params) ([]*User, error)
	IndexCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*User, error)
}
