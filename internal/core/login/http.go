// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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

// RegisterRoutes mounts the administrative login-journal endpoints.
// The admin gate is applied by the server when mounting this router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createLogin)
	router.Get("/", handler.listLogins)
	router.Get("/{id}", handler.getLogin)
	router.Patch("/{id}", handler.updateLogin)
	router.Delete("/{id}", handler.deleteLogin)
}

func (handler *Handler) createLogin(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateLogin(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) listLogins(writer http.ResponseWriter, request *http.Request) {
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

	var logins []*Login
	if userID := request.URL.Query().Get(FieldUserID); userID != "" {
		if err := (&validate.Validator{}).UUID(FieldUserID, userID).Err(); err != nil {
			respond.Error(writer, request, err)
			return
		}
		logins, err = handler.service.ListUserLogins(request.Context(), userID, params)
	} else if cursor != nil {
		logins, err = handler.service.ListLoginsCursor(request.Context(), params.Limit, cursor)
	} else {
		logins, err = handler.service.ListLogins(request.Context(), params)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, logins, pagination.NewMeta(params, len(logins)))
}

func (handler *Handler) getLogin(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	l, err := handler.service.GetLogin(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, l)
}

func (handler *Handler) updateLogin(writer http.ResponseWriter, request *http.Request) {
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

	updated, err := handler.service.UpdateLogin(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteLogin(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteLogin(request.Context(), id)
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
