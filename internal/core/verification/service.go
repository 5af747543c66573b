// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package verification implements email verification tokens and their
// administrative surface.
package verification

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/sec"
	"github.com/taibuivan/authgate/pkg/pagination"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

type Service struct {
	store  Store
	codec  *sec.Codec
	ttl    time.Duration
	logger *slog.Logger
}

func NewService(store Store, codec *sec.Codec, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		logger: logger,
	}
}

// CreateInput holds the data for one verification row. Token and ExpiresAt
// are optional; when absent the service mints a fresh token with its
// configured lifetime.
type CreateInput struct {
	UserID    string     `json:"user_id"`
	Token     *string    `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// mint signs a fresh email-verification JWT for the user. Verification
// tokens carry no authorization, so the role claim is always guest.
func (service *Service) mint(userID string) (string, error) {
	claim := sec.NewTokenClaim(service.codec.Issuer(), service.ttl, userID, sec.RoleGuest, sec.KindEmailVerification)
	token, err := sec.NewEmailVerificationToken(service.codec, claim)
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token.String(), nil
}

// Issue mints and persists a fresh verification for the user. This is the
// path the registration flow uses.
func (service *Service) Issue(context context.Context, userID string) (*EmailVerification, error) {
	token, err := service.mint(userID)
	if err != nil {
		return nil, err
	}

	stored, err := service.store.Insert(context, &EmailVerification{
		ID:        uuidv7.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(service.ttl),
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("verification_issued",
		slog.String("verification_id", stored.ID),
		slog.String("user_id", userID),
	)
	return stored, nil
}

func (service *Service) build(input CreateInput) (*EmailVerification, error) {
	if !uuidv7.IsValid(input.UserID) {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldUserID, Message: "Must be a valid UUID"})
	}

	v := &EmailVerification{
		ID:     uuidv7.New(),
		UserID: input.UserID,
	}

	if input.Token != nil {
		v.Token = *input.Token
	} else {
		token, err := service.mint(input.UserID)
		if err != nil {
			return nil, err
		}
		v.Token = token
	}

	if input.ExpiresAt != nil {
		v.ExpiresAt = input.ExpiresAt.UTC()
	} else {
		v.ExpiresAt = time.Now().UTC().Add(service.ttl)
	}

	return v, nil
}

// CreateVerification inserts a row on behalf of an administrator.
func (service *Service) CreateVerification(context context.Context, input CreateInput) (*EmailVerification, error) {
	v, err := service.build(input)
	if err != nil {
		return nil, err
	}

	stored, err := service.store.Insert(context, v)
	if err != nil {
		return nil, err
	}

	service.logger.Info("verification_created",
		slog.String("verification_id", stored.ID),
		slog.String("user_id", stored.UserID),
	)
	return stored, nil
}

// CreateVerificationBatch inserts all rows inside one transaction.
func (service *Service) CreateVerificationBatch(context context.Context, inputs []CreateInput) (int64, error) {
	batch := make([]*EmailVerification, 0, len(inputs))
	for _, input := range inputs {
		v, err := service.build(input)
		if err != nil {
			return 0, err
		}
		batch = append(batch, v)
	}

	inserted, err := service.store.InsertBatch(context, batch)
	if err != nil {
		return 0, err
	}

	service.logger.Info("verification_batch_created", slog.Int64("rows_affected", inserted))
	return inserted, nil
}

func (service *Service) GetVerification(context context.Context, id string) (*EmailVerification, error) {
	return service.store.FindByID(context, id)
}

func (service *Service) GetVerificationByToken(context context.Context, token string) (*EmailVerification, error) {
	return service.store.FindByToken(context, token)
}

func (service *Service) ListVerifications(context context.Context, params pagination.Params) ([]*EmailVerification, error) {
	return service.store.Index(context, params)
}

func (service *Service) ListVerificationsCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*EmailVerification, error) {
	return service.store.IndexCursor(context, limit, after)
}

func (service *Service) ListUserVerifications(context context.Context, userID string, params pagination.Params) ([]*EmailVerification, error) {
	return service.store.IndexByUser(context, userID, params)
}

func (service *Service) ListUserVerificationsCursor(context context.Context, userID string, limit int64, after *pagination.Cursor) ([]*EmailVerification, error) {
	return service.store.IndexByUserCursor(context, userID, limit, after)
}

// UpdateInput carries the mutable verification columns.
type UpdateInput struct {
	Token     *string    `json:"token"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsUsed    *bool      `json:"is_used"`
}

func (service *Service) UpdateVerification(context context.Context, id string, input UpdateInput) (*EmailVerification, error) {
	current, err := service.store.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Token != nil {
		current.Token = *input.Token
	}
	if input.ExpiresAt != nil {
		current.ExpiresAt = input.ExpiresAt.UTC()
	}
	if input.IsUsed != nil {
		current.IsUsed = *input.IsUsed
	}

	stored, err := service.store.Update(context, current)
	if err != nil {
		return nil, err
	}

	service.logger.Info("verification_updated", slog.String("verification_id", id))
	return stored, nil
}

// UpsertVerification writes the row as-is, inserting or replacing by id.
func (service *Service) UpsertVerification(context context.Context, v *EmailVerification) (*EmailVerification, error) {
	if !uuidv7.IsValid(v.ID) {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldID, Message: "Must be a valid UUID"})
	}
	if !uuidv7.IsValid(v.UserID) {
		return nil, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldUserID, Message: "Must be a valid UUID"})
	}

	stored, err := service.store.Upsert(context, v)
	if err != nil {
		return nil, err
	}

	service.logger.Info("verification_upserted", slog.String("verification_id", stored.ID))
	return stored, nil
}

// MarkUsed consumes the verification identified by its raw token.
func (service *Service) MarkUsed(context context.Context, token string) (*EmailVerification, error) {
	current, err := service.store.FindByToken(context, token)
	if err != nil {
		return nil, err
	}

	current.IsUsed = true
	return service.store.Update(context, current)
}

func (service *Service) DeleteVerification(context context.Context, id string) (int64, error) {
	return service.store.DeleteByID(context, id)
}

func (service *Service) DeleteVerificationByToken(context context.Context, token string) (int64, error) {
	return service.store.DeleteByToken(context, token)
}

func (service *Service) DeleteUserVerifications(context context.Context, userID string) (int64, error) {
	affected, err := service.store.DeleteAllForUser(context, userID)
	if err != nil {
		return 0, err
	}

	service.logger.Info("user_verifications_deleted",
		slog.String("user_id", userID),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}

func (service *Service) DeleteExpiredVerifications(context context.Context) (int64, error) {
	affected, err := service.store.DeleteExpired(context)
	if err != nil {
		return 0, err
	}

	service.logger.Info("expired_verifications_deleted", slog.Int64("rows_affected", affected))
	return affected, nil
}

func (service *Service) DeleteUsedVerifications(context context.Context) (int64, error) {
	affected, err := service.store.DeleteUsed(context)
	if err != nil {
		return 0, err
	}

	service.logger.Info("used_verifications_deleted", slog.Int64("rows_affected", affected))
	return affected, nil
}

func (service *Service) DeleteVerificationsOlderThan(context context.Context, age time.Duration) (int64, error) {
	if age <= 0 {
		return 0, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "age", Message: "Must be a positive duration"})
	}

	affected, err := service.store.DeleteOlderThan(context, age)
	if err != nil {
		return 0, err
	}

	service.logger.Info("old_verifications_deleted",
		slog.Duration("age", age),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}

func (service *Service) DeleteVerificationsByIDs(context context.Context, ids []string) (int64, error) {
	for _, id := range ids {
		if !uuidv7.IsValid(id) {
			return 0, apperr.ValidationError("Validation failed",
				apperr.FieldError{Field: FieldID, Message: "Must be a valid UUID"})
		}
	}
	return service.store.DeleteByIDs(context, ids)
}

func (service *Service) DeleteAllVerifications(context context.Context) (int64, error) {
	affected, err := service.store.DeleteAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.Warn("all_verifications_deleted", slog.Int64("rows_affected", affected))
	return affected, nil
}
