// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package session implements the server-side session ledger and its
// administrative surface.
package session

import (
	"context"
	"log/slog"

	"github.com/taibuivan/authgate/pkg/pagination"
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

func (service *Service) GetSession(context context.Context, id string) (*Session, error) {
	return service.store.FindByID(context, id)
}

func (service *Service) ListSessions(context context.Context, params pagination.Params) ([]*Session, error) {
	return service.store.Index(context, params)
}

func (service *Service) ListSessionsCursor(context context.Context, limit int64, after *pagination.Cursor) ([]*Session, error) {
	return service.store.IndexCursor(context, limit, after)
}

func (service *Service) ListUserSessions(context context.Context, userID string, params pagination.Params) ([]*Session, error) {
	return service.store.IndexByUser(context, userID, params)
}

// RevokeSession invalidates one session by id.
func (service *Service) RevokeSession(context context.Context, id string, logoutIP string) (int64, error) {
	affected, err := service.store.RevokeByID(context, id, logoutIP)
	if err != nil {
		return 0, err
	}

	service.logger.Info("session_revoked",
		slog.String("session_id", id),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}

// RevokeUserSessions invalidates every session belonging to one user.
func (service *Service) RevokeUserSessions(context context.Context, userID string, logoutIP string) (int64, error) {
	affected, err := service.store.RevokeAllForUser(context, userID, logoutIP)
	if err != nil {
		return 0, err
	}

	service.logger.Info("user_sessions_revoked",
		slog.String("user_id", userID),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}

// RevokeAllSessions is the emergency sweep across every user.
func (service *Service) RevokeAllSessions(context context.Context) (int64, error) {
	affected, err := service.store.RevokeAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.Warn("all_sessions_revoked", slog.Int64("rows_affected", affected))
	return affected, nil
}

func (service *Service) DeleteSession(context context.Context, id string) (int64, error) {
	return service.store.DeleteByID(context, id)
}

func (service *Service) DeleteUserSessions(context context.Context, userID string) (int64, error) {
	return service.store.DeleteAllForUser(context, userID)
}

// DeleteExpiredSessions clears rows whose expiry has passed. Intended for a
// periodic maintenance call from admin tooling.
func (service *Service) DeleteExpiredSessions(context context.Context) (int64, error) {
	affected, err := service.store.DeleteExpired(context)
	if err != nil {
		return 0, err
	}

	service.logger.Info("expired_sessions_deleted", slog.Int64("rows_affected", affected))
	return affected, nil
}

func (service *Service) DeleteAllSessions(context context.Context) (int64, error) {
	affected, err := service.store.DeleteAll(context)
	if err != nil {
		return 0, err
	}

	service.logger.Warn("all_sessions_deleted", slog.Int64("rows_affected", affected))
	return affected, nil
}
