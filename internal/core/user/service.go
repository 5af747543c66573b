// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package user implements identity records and their administrative surface.
package user

import (
	"context"
	"log/slog"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/sec"
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

// CreateInput holds the data an admin supplies for a new identity record.
type CreateInput struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	IsActive   bool   `json:"is_active"`
	IsVerified bool   `json:"is_verified"`
}

// CreateUser validates the input through the value-type parsers and persists
// a new record. A duplicate email surfaces as a 409 from the unique constraint.
func (service *Service) CreateUser(context context.Context, input CreateInput) (*User, error) {
	email, err := ParseEmailAddress(input.Email)
	if err != nil {
		return nil, err
	}
	name, err := ParseUserName(input.Name)
	if err != nil {
		return nil, err
	}
	passwordHash, err := ParsePasswordHash(input.Password)
	if err != nil {
		return nil, err
	}
	role, err := sec.ParseUserRole(input.Role)
	if err != nil {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldRole, Message: "Must be one of: admin, user, guest"})
	}

	stored, err := service.store.Insert(context, &User{
		ID:           uuidv7.New(),
		Email:        email.String(),
		Name:         name.String(),
		PasswordHash: passwordHash.String(),
		Role:         role,
		IsActive:     input.IsActive,
		IsVerified:   input.IsVerified,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_created",
		slog.String("user_id", stored.ID),
		slog.String("role", string(stored.Role)),
	)
	return stored, nil
}

func (service *Service) GetUser(context context.Context, id string) (*User, error) {
	return service.store.FindByID(context, id)
}

func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*User, error) {
	return service.store.Index(context, params)
}

func (service *Service) ListUsersCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*User, error) {
	return service.store.IndexCursor(context, limit, after)
}

// UpdateInput carries the mutable columns. Nil pointers mean "leave unchanged".
type UpdateInput struct {
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	Password   *string `json:"password"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateUser applies a partial update after re-validating every supplied field.
func (service *Service) UpdateUser(context context.Context, id string, input UpdateInput) (*User, error) {
	current, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email, err := ParseEmailAddress(*input.Email)
		if err != nil {
			return nil, err
		}
		current.Email = email.String()
	}
	if input.Name != nil {
		name, err := ParseUserName(*input.Name)
		if err != nil {
			return nil, err
		}
		current.Name = name.String()
	}
	if input.Password != nil {
		passwordHash, err := ParsePasswordHash(*input.Password)
		if err != nil {
			return nil, err
		}
		current.PasswordHash = passwordHash.String()
	}
	if input.Role != nil {
		role, err := sec.ParseUserRole(*input.Role)
		if err != nil {
			return nil, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldRole, Message: "Must be one of: admin, user, guest"})
		}
		current.Role = role
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		current.IsVerified = *input.IsVerified
	}

	stored, err := service.store.Update(context, current)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_updated", slog.String("user_id", id))
	return stored, nil
}

// DeleteUser removes the record. Sessions, logins, and email verifications
// owned by the user go with it via the schema's cascade rules.
func (service *Service) DeleteUser(context context.Context, id string) (int64, error) {
	affected, err := service.store.DeleteByID(context, id)
	if err != nil {
		return 0, err
	}

	service.logger.Warn("user_deleted",
		slog.String("user_id", id),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}
