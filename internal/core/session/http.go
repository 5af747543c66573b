// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authgate/internal/platform/ctxutil"
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

// RegisterRoutes mounts the administrative session endpoints.
// The admin gate is applied by the server when mounting this router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listSessions)
	router.Get("/{id}", handler.getSession)
	router.Post("/{id}/revoke", handler.revokeSession)
	router.Post("/revoke-all", handler.revokeAllSessions)
	router.Post("/user/{user_id}/revoke", handler.revokeUserSessions)
	router.Delete("/", handler.deleteAllSessions)
	router.Delete("/expired", handler.deleteExpiredSessions)
	router.Delete("/{id}", handler.deleteSession)
	router.Delete("/user/{user_id}", handler.deleteUserSessions)
}

func (handler *Handler) listSessions(writer http.ResponseWriter, request *http.Request) {
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

	var sessions []*Session
	if userID := request.URL.Query().Get(FieldUserID); userID != "" {
		if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		sessions, err = handler.service.ListUserSessions(request.Context(), userID, params)
	} else if cursor != nil {
		sessions, err = handler.service.ListSessionsCursor(request.Context(), params.Limit, cursor)
	} else {
		sessions, err = handler.service.ListSessions(request.Context(), params)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, sessions, pagination.NewMeta(params, len(sessions)))
}

func (handler *Handler) getSession(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	s, err := handler.service.GetSession(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, s)
}

// affectedResponse is the JSON body for bulk session operations.
type affectedResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

func (handler *Handler) revokeSession(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.RevokeSession(request.Context(), id, requestutil.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) revokeUserSessions(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "user_id")
	if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.RevokeUserSessions(request.Context(), userID, requestutil.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) revokeAllSessions(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.RevokeAllSessions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteSession(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteSession(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteUserSessions(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.ID(request, "user_id")
	if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteUserSessions(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteExpiredSessions(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.DeleteExpiredSessions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}

func (handler *Handler) deleteAllSessions(writer http.ResponseWriter, request *http.Request) {
	affected, err := handler.service.DeleteAllSessions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, affectedResponse{RowsAffected: affected})
}
