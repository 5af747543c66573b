// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/authgate/internal/platform/constants"
	requestutil "github.com/taibuivan/authgate/internal/platform/request"
	"github.com/taibuivan/authgate/internal/platform/respond"
	"github.com/taibuivan/authgate/internal/platform/validate"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public authentication endpoints. None of them
// require a prior Authenticate pass; tokens arrive in the body or headers
// and are checked by the engine itself.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Post("/register", handler.register)
	router.Post("/update-password", handler.updatePassword)
	router.Post("/reset-password/request", handler.requestPasswordReset)
	router.Post("/reset-password", handler.resetPassword)
	router.Post("/verify-email", handler.verifyEmail)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.service.Login(request.Context(), body.Email, body.Password,
		requestutil.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// refreshToken reads the token from the body, falling back to the
// refresh_token header for clients that deliver it as metadata.
func refreshToken(request *http.Request) (string, error) {
	var body refreshRequest
	if err := requestutil.DecodeJSON(request, &body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken, nil
	}
	if header := request.Header.Get("refresh_token"); header != "" {
		return header, nil
	}
	return "", validate.RequiredError("refresh_token", "Refresh token is required")
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	token, err := refreshToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.service.Refresh(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pair)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	token, err := refreshToken(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	affected, err := handler.service.Logout(request.Context(), token,
		requestutil.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, struct {
		RowsAffected int64 `json:"rows_affected"`
	}{RowsAffected: affected})
}

func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, _, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// No tokens until the email is verified.
	respond.Created(writer, account)
}

type updatePasswordRequest struct {
	PasswordOriginal string `json:"password_original"`
	PasswordNew      string `json:"password_new"`
}

func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {
	var body updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	pair, err := handler.service.UpdatePassword(request.Context(), rawAccessToken(request),
		body.PasswordOriginal, body.PasswordNew, requestutil.ClientIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, pair)
}

type resetRequestBody struct {
	Email string `json:"email"`
}

func (handler *Handler) requestPasswordReset(writer http.ResponseWriter, request *http.Request) {
	var body resetRequestBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RequestPasswordReset(request.Context(), body.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Identical response whether or not the account exists.
	respond.OK(writer, struct {
		Status string `json:"status"`
	}{Status: "accepted"})
}

type resetPasswordRequest struct {
	ResetToken  string `json:"reset_token"`
	PasswordNew string `json:"password_new"`
}

func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var body resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ResetPassword(request.Context(), body.ResetToken, body.PasswordNew); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var body verifyEmailRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.VerifyEmail(request.Context(), body.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// rawAccessToken reads the encoded access token from the Authorization
// bearer header or the access_token metadata header.
func rawAccessToken(request *http.Request) string {
	if header := request.Header.Get("Authorization"); header != "" {
		if token, found := strings.CutPrefix(header, "Bearer "); found {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return request.Header.Get(constants.HeaderAccessToken)
}
