// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package verification

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/ctxutil"
	"github.com/taibuivan/authgate/internal/platform/dberr"
	requestutil "github.com/taibuivan/authgate/internal/platform/request"
	"github.com/taibuivan/authgate/internal/platform/respond"
	"github.com/taibuivan/authgate/internal/platform/validate"
	"github.com/taibuivan/authgate/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type affectedResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

// RegisterRoutes mounts the administrative verification endpoints.
// The admin gate is applied by the server when mounting this router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createVerification)
	router.Post("/batch", handler.createVerificationBatch)
	router.Get("/", handler.listVerifications)
	router.Get("/{id}", handler.getVerification)
	router.Patch("/{id}", handler.updateVerification)
	router.Put("/{id}", handler.upsertVerification)

	router.Delete("/", handler.deleteAllVerifications)
	router.Delete("/batch", handler.deleteVerificationBatch)
	router.Delete("/expired", handler.deleteExpiredVerifications)
	router.Delete("/used", handler.deleteUsedVerifications)
	router.Delete("/stale", handler.deleteStaleVerifications)
	router.Delete("/by-token", handler.deleteVerificationByToken)
	router.Delete("/user/{user_id}", handler.deleteUserVerifications)
	router.Delete("/{id}", handler.deleteVerification)
}

func (handler *Handler) createVerification(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateVerification(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) createVerificationBatch(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Verifications []CreateInput `json:"verifications"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	inserted, err := handler.service.CreateVerificationBatch(request.Context(), input.Verifications)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, affectedResponse{RowsAffected: inserted})
}

func (handler *Handler) listVerifications(writer http.ResponseWriter, request *http.Request) {
	logger := ctxutil.GetLogger(request.Context())

	params, err := pagination.FromRequest(request, logger)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cursor, err := pagination.CursorFromRequest(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := request.URL.Query().Get(FieldUserID)
	if userID != "" {
		if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	var verifications []*EmailVerification
	switch {
	case userID != "" && cursor != nil:
		verifications, err = handler.service.ListUserVerificationsCursor(request.Context(), userID, params.Limit, cursor)
	case userID != "":
		verifications, err = handler.service.ListUserVerifications(request.Context(), userID, params)
	case cursor != nil:
		verifications, err = handler.service.ListVerificationsCursor(request.Context(), params.Limit, cursor)
	default:
		verifications, err = handler.service.ListVerifications(request.Context(), params)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, verifications, pagination.NewMeta(params, len(verifications)))
}

func (handler *Handler) getVerification(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v, err := handler.service.GetVerification(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, v)
}

func (handler *Handler) updateVerification(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.UpdateVerification(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) upsertVerification(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body EmailVerification
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	body.ID = id

	stored, err := handler.service.UpsertVerification(request.Context(), &body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stored)
}

func (handler *Handler) deleteVerification(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteVerification(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if affected == 0 {
		respond.Error(writer, request, dberr.ErrNotFound)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteVerificationByToken(writer http.ResponseWriter, request *http.Request) {
	token := request.URL.Query().Get(FieldToken)
	if token == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "Token is required"))
		return
	}

	affected, err := handler.service.DeleteVerificationByToken(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if affected == 0 {
		respond.Error(writer, request, dberr.ErrNotFound)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteUserVerifications(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "user_id")
	if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteUserVerifications(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteExpiredVerifications(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.DeleteExpiredVerifications(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteUsedVerifications(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.DeleteUsedVerifications(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteStaleVerifications(writer http.ResponseWriter, request *http.Request) {
	raw := request.URL.Query().Get("age")
	age, err := time.ParseDuration(raw)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: "age", Message: "Must be a Go duration such as 720h"}))
		return
	}

	affected, err := handler.service.DeleteVerificationsOlderThan(request.Context(), age)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteVerificationBatch(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		IDs []string `json:"ids"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteVerificationsByIDs(request.Context(), input.IDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteAllVerifications(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.DeleteAllVerifications(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}
