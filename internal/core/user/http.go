// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

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

// RegisterRoutes mounts the administrative user endpoints.
// The admin gate is applied by the server when mounting this router.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createUser)
	router.Get("/", handler.listUsers)
	router.Get("/{id}", handler.getUser)
	router.Patch("/{id}", handler.updateUser)
	router.Delete("/{id}", handler.deleteUser)
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	var input CreateInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateUser(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
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

	var users []*User
	if cursor != nil {
		users, err = handler.service.ListUsersCursor(request.Context(), params.Limit, cursor)
	} else {
		users, err = handler.service.ListUsers(request.Context(), params)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, len(users)))
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	u, err := handler.service.GetUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, u)
}

func (handler *Handler) updateUser(writer http.ResponseWriter, request *http.Request) {
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

	updated, err := handler.service.UpdateUser(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if err := (&validate.Validator{}).UUID(FieldID, id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.DeleteUser(request.Context(), id)
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
