// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package login implements the authentication audit journal and its
// administrative surface.
package login

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/pkg/pagination"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// CreateInput holds the data for a manually inserted journal row.
type CreateInput struct {
	UserID  string     `json:"user_id"`
	LoginOn *time.Time `json:"login_on"`
	LoginIP *string    `json:"login_ip"`
}

// CreateLogin inserts a journal row on behalf of an administrator. The
// engine's own journal appends go straight to the store.
func (service *Service) CreateLogin(context context.Context, input CreateInput) (*Login, error) {
	if !uuidv7.IsValid(input.UserID) {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldUserID, Message: "Must be a valid UUID"})
	}

	loginOn := time.Now().UTC()
	if input.LoginOn != nil {
		loginOn = input.LoginOn.UTC()
	}

	stored, err := service.store.Insert(context, &Login{
		ID:      uuidv7.New(),
		UserID:  input.UserID,
		LoginOn: loginOn,
		LoginIP: input.LoginIP,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("login_row_created",
		slog.String("login_id", stored.ID),
		slog.String("user_id", stored.UserID),
	)
	return stored, nil
}

func (service *Service) GetLogin(context context.Context, id string) (*Login, error) {
	return service.store.FindByID(context, id)
}

func (service *Service) ListLogins(context context.Context, params pagination.Params) ([]*Login, error) {
	return service.store.Index(context, params)
}

func (service *Service) ListLoginsCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Login, error) {
	return service.store.IndexCursor(context, limit, after)
}

func (service *Service) ListUserLogins(context context.Context, userID string, params pagination.Params) ([]*Login, error) {
	return service.store.IndexByUser(context, userID, params)
}

// UpdateInput carries the columns an administrator may correct.
type UpdateInput struct {
	UserID  *string    `json:"user_id"`
	LoginOn *time.Time `json:"login_on"`
	LoginIP *string    `json:"login_ip"`
}

// UpdateLogin corrects a journal row. This is an administrative escape hatch;
// the journal is append-only in normal operation.
func (service *Service) UpdateLogin(context context.Context, id string, input UpdateInput) (*Login, error) {
	current, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.UserID != nil {
		if !uuidv7.IsValid(*input.UserID) {
			return nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldUserID, Message: "Must be a valid UUID"})
		}
		current.UserID = *input.UserID
	}
	if input.LoginOn != nil {
		current.LoginOn = input.LoginOn.UTC()
	}
	if input.LoginIP != nil {
		current.LoginIP = input.LoginIP
	}

	stored, err := service.store.Update(context, current)
	if err != nil {
		return nil, err
	}

	service.logger.Warn("login_row_updated", slog.String("login_id", id))
	return stored, nil
}

func (service *Service) DeleteLogin(context context.Context, id string) (int64, error) {
	affected, err := service.store.DeleteByID(context, id)
	if err != nil {
		return 0, err
	}

	service.logger.Warn("login_row_deleted",
		slog.String("login_id", id),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}
