// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the authentication engine.

It is the only component allowed to compose value types, password hashing,
the token codec, and the stores. Every other surface either feeds it (the
HTTP handlers) or is downstream of the tokens it issues (the admin facades).

# Oracle Resistance

Every failure on the login, refresh, and logout paths collapses to the same
Unauthenticated("authentication failed") response. Bad email syntax, unknown
user, wrong password, and revoked session are indistinguishable to a client.
The single exception is an expired token, which is reported distinctly
because the token was genuinely valid once.
*/
package auth

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/taibuivan/authgate/internal/core/login"
	"github.com/taibuivan/authgate/internal/core/session"
	"github.com/taibuivan/authgate/internal/core/user"
	"github.com/taibuivan/authgate/internal/core/verification"
	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/constants"
	"github.com/taibuivan/authgate/internal/platform/sec"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

// TokenPair is the result of every operation that authenticates the caller.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// errAuthFailed is the single opaque credential failure. See the package doc.
func errAuthFailed() *apperr.AppError {
	return apperr.Unauthenticated("authentication failed")
}

type Service struct {
	users         user.Store
	sessions      session.Store
	logins        login.Store
	verifications verification.Store
	resetTokens   ResetTokenStore

	codec      *sec.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration

	logger *slog.Logger
}

func NewService(
	users user.Store,
	sessions session.Store,
	logins login.Store,
	verifications verification.Store,
	resetTokens ResetTokenStore,
	codec *sec.Codec,
	accessTTL time.Duration,
	refreshTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:         users,
		sessions:      sessions,
		logins:        logins,
		verifications: verifications,
		resetTokens:   resetTokens,
		codec:         codec,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		logger:        logger,
	}
}

// # Login

/*
Login verifies credentials and opens a new session.

On success it appends one journal row, inserts one session row holding the
refresh JWT, and returns the access/refresh pair. peerIP is recorded only
when it is a literal IPv4 address; anything else is stored as NULL.

A journal insert failure is fatal to the whole request: an authentication
that cannot be audited must not succeed.
*/
func (service *Service) Login(context context.Context, email, password, peerIP string) (*TokenPair, error) {
	parsed, err := user.ParseEmailAddress(email)
	if err != nil {
		return nil, errAuthFailed()
	}

	account, err := service.users.FindByEmail(context, parsed.String())
	if err != nil {
		// Burn the same Argon2id cost as a real verification so response
		// timing does not reveal whether the account exists.
		sec.DummyCheck(password)
		return nil, errAuthFailed()
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, errAuthFailed()
	}

	loginIP := ipv4OrNil(peerIP)

	if _, err := service.logins.Insert(context, &login.Login{
		ID:      uuidv7.New(),
		UserID:  account.ID,
		LoginOn: time.Now().UTC(),
		LoginIP: loginIP,
	}); err != nil {
		return nil, err
	}

	pair, err := service.issuePair(context, account, loginIP)
	if err != nil {
		return nil, err
	}

	service.logger.Info("login_succeeded", slog.String("user_id", account.ID))
	return pair, nil
}

// # Refresh Rotation

/*
Refresh exchanges a live refresh token for a fresh pair.

Rotation is total: every session belonging to the user is revoked, including
the one presented, and exactly one new active session replaces them. A
rotated token presented a second time finds its session inactive and fails,
which is the reuse-detection property. Two concurrent refreshes with the
same token race on the is_active flag; the database serializes them so that
exactly one wins.
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	token, err := sec.ParseRefreshToken(service.codec, refreshToken)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeTokenExpired) {
			return nil, err
		}
		return nil, errAuthFailed()
	}

	current, err := service.sessions.FindByToken(context, refreshToken)
	if err != nil {
		return nil, errAuthFailed()
	}

	if !current.IsActive {
		// A previously-rotated token is being replayed.
		service.logger.Warn("refresh_token_reuse_detected",
			slog.String("user_id", current.UserID),
			slog.String("session_id", current.ID),
		)
		return nil, errAuthFailed()
	}

	if _, err := service.sessions.RevokeAllForUser(context, current.UserID, ""); err != nil {
		return nil, err
	}

	account, err := service.users.FindByID(context, token.Claim().UserID())
	if err != nil {
		return nil, errAuthFailed()
	}

	pair, err := service.issuePair(context, account, current.LoginIP)
	if err != nil {
		return nil, err
	}

	service.logger.Info("session_rotated", slog.String("user_id", account.ID))
	return pair, nil
}

// # Logout

// Logout revokes every session of the token's owner and returns the count.
// Any decode or lookup failure is the opaque credential error.
func (service *Service) Logout(context context.Context, refreshToken, peerIP string) (int64, error) {
	if _, err := sec.ParseRefreshToken(service.codec, refreshToken); err != nil {
		return 0, errAuthFailed()
	}

	current, err := service.sessions.FindByToken(context, refreshToken)
	if err != nil {
		return 0, errAuthFailed()
	}

	logoutIP := ""
	if ip := ipv4OrNil(peerIP); ip != nil {
		logoutIP = *ip
	}

	affected, err := service.sessions.RevokeAllForUser(context, current.UserID, logoutIP)
	if err != nil {
		return 0, err
	}

	service.logger.Info("logout_everywhere",
		slog.String("user_id", current.UserID),
		slog.Int64("rows_affected", affected),
	)
	return affected, nil
}

// # Password Update

/*
UpdatePassword rotates the caller's credential and all of their sessions.

Unlike plain login, this path requires the account to be both active and
verified. After the new hash is stored every session dies and a fresh pair
is issued, so the caller stays logged in on the current device only.
*/
func (service *Service) UpdatePassword(context context.Context, accessToken, oldPassword, newPassword, peerIP string) (*TokenPair, error) {
	token, err := sec.ParseAccessToken(service.codec, accessToken)
	if err != nil {
		return nil, errAuthFailed()
	}

	account, err := service.users.FindByID(context, token.Claim().UserID())
	if err != nil {
		return nil, errAuthFailed()
	}

	if !account.IsActive || !account.IsVerified {
		return nil, errAuthFailed()
	}

	if !sec.CheckPasswordHash(oldPassword, account.PasswordHash) {
		return nil, errAuthFailed()
	}

	hash, err := user.ParsePasswordHash(newPassword)
	if err != nil {
		return nil, err
	}
	account.PasswordHash = hash.String()

	account, err = service.users.Update(context, account)
	if err != nil {
		return nil, err
	}

	if _, err := service.sessions.RevokeAllForUser(context, account.ID, ""); err != nil {
		return nil, err
	}

	pair, err := service.issuePair(context, account, ipv4OrNil(peerIP))
	if err != nil {
		return nil, err
	}

	service.logger.Info("password_updated", slog.String("user_id", account.ID))
	return pair, nil
}

// # Registration

// RegisterInput is the self-service signup payload.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

/*
Register creates an account and its pending email verification.

The account starts active but unverified, and no tokens are returned; the
client authenticates only after consuming the verification token. The raw
verification JWT is returned to the caller of this method so the delivery
channel (mail, out of scope here) can pick it up.
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*user.User, *verification.EmailVerification, error) {
	email, err := user.ParseEmailAddress(input.Email)
	if err != nil {
		return nil, nil, err
	}
	name, err := user.ParseUserName(input.Name)
	if err != nil {
		return nil, nil, err
	}
	hash, err := user.ParsePasswordHash(input.Password)
	if err != nil {
		return nil, nil, err
	}

	account, err := service.users.Insert(context, &user.User{
		ID:           uuidv7.New(),
		Email:        email.String(),
		Name:         name.String(),
		PasswordHash: hash.String(),
		Role:         sec.RoleUser,
		IsActive:     true,
		IsVerified:   false,
	})
	if err != nil {
		return nil, nil, err
	}

	pending, err := service.issueVerification(context, account.ID)
	if err != nil {
		return nil, nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", account.ID),
		slog.String("verification_id", pending.ID),
	)
	return account, pending, nil
}

// # Password Reset

/*
RequestPasswordReset mints a reset token for the email's owner.

The operation is enumeration-safe: an unknown email returns success without
doing anything, so the endpoint cannot be used to probe which addresses have
accounts. The token lives in Redis under the account email and expires on
its own.
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) error {
	parsed, err := user.ParseEmailAddress(email)
	if err != nil {
		return nil
	}

	account, err := service.users.FindByEmail(context, parsed.String())
	if err != nil {
		return nil
	}

	claim := sec.NewTokenClaim(service.codec.Issuer(), constants.DefaultResetTokenTTL,
		account.ID, account.Role, sec.KindPasswordReset)
	token, err := sec.NewPasswordResetToken(service.codec, claim)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := service.resetTokens.Save(context, account.Email, token.String(), constants.DefaultResetTokenTTL); err != nil {
		return err
	}

	service.logger.Info("password_reset_requested", slog.String("user_id", account.ID))
	return nil
}

/*
ResetPassword completes the forgot-password flow.

The presented token must decode as a password-reset JWT, match the one
stored for the account email, and the account must still exist. On success
the new hash is stored, the stored token is consumed, and every session for
the user is revoked. No pair is issued; the caller logs in again.
*/
func (service *Service) ResetPassword(context context.Context, resetToken, newPassword string) error {
	token, err := sec.ParsePasswordResetToken(service.codec, resetToken)
	if err != nil {
		return errAuthFailed()
	}

	account, err := service.users.FindByID(context, token.Claim().UserID())
	if err != nil {
		return errAuthFailed()
	}

	stored, err := service.resetTokens.Find(context, account.Email)
	if err != nil {
		return errAuthFailed()
	}
	if stored != resetToken {
		return errAuthFailed()
	}

	hash, err := user.ParsePasswordHash(newPassword)
	if err != nil {
		return err
	}
	account.PasswordHash = hash.String()

	if _, err := service.users.Update(context, account); err != nil {
		return err
	}
	if err := service.resetTokens.Delete(context, account.Email); err != nil {
		return err
	}
	if _, err := service.sessions.RevokeAllForUser(context, account.ID, ""); err != nil {
		return err
	}

	service.logger.Info("password_reset_completed", slog.String("user_id", account.ID))
	return nil
}

// # Email Verification

/*
VerifyEmail consumes a verification token and marks the owner verified.

The token must decode as an email-verification JWT, the stored row must be
unused with a live row expiry, and the owner must exist. Consumption sets
is_used and updated_at on the row and is_verified on the user.
*/
func (service *Service) VerifyEmail(context context.Context, verificationToken string) error {
	if _, err := sec.ParseEmailVerificationToken(service.codec, verificationToken); err != nil {
		return errAuthFailed()
	}

	record, err := service.verifications.FindByToken(context, verificationToken)
	if err != nil {
		return errAuthFailed()
	}

	if record.IsUsed || !record.ExpiresAt.After(time.Now().UTC()) {
		return errAuthFailed()
	}

	account, err := service.users.FindByID(context, record.UserID)
	if err != nil {
		return errAuthFailed()
	}

	record.IsUsed = true
	if _, err := service.verifications.Update(context, record); err != nil {
		return err
	}

	account.IsVerified = true
	if _, err := service.users.Update(context, account); err != nil {
		return err
	}

	service.logger.Info("email_verified", slog.String("user_id", account.ID))
	return nil
}

// # Shared Helpers

// issuePair mints an access token, then a refresh token backed by one new
// active session row. The returned refresh string always equals the new
// session's refresh_token column.
func (service *Service) issuePair(context context.Context, account *user.User, loginIP *string) (*TokenPair, error) {
	accessClaim := sec.NewTokenClaim(service.codec.Issuer(), service.accessTTL,
		account.ID, account.Role, sec.KindAccess)
	access, err := sec.NewAccessToken(service.codec, accessClaim)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshClaim := sec.NewTokenClaim(service.codec.Issuer(), service.refreshTTL,
		account.ID, account.Role, sec.KindRefresh)
	refresh, err := sec.NewRefreshToken(service.codec, refreshClaim)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now().UTC()
	if _, err := service.sessions.Insert(context, &session.Session{
		ID:           uuidv7.New(),
		UserID:       account.ID,
		LoggedInAt:   now,
		LoginIP:      loginIP,
		ExpiresOn:    now.Add(service.refreshTTL),
		RefreshToken: refresh.String(),
		IsActive:     true,
	}); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access.String(),
		RefreshToken: refresh.String(),
	}, nil
}

// issueVerification mints and persists one email-verification row.
func (service *Service) issueVerification(context context.Context, userID string) (*verification.EmailVerification, error) {
	claim := sec.NewTokenClaim(service.codec.Issuer(), constants.DefaultVerificationTokenTTL,
		userID, sec.RoleGuest, sec.KindEmailVerification)
	token, err := sec.NewEmailVerificationToken(service.codec, claim)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return service.verifications.Insert(context, &verification.EmailVerification{
		ID:        uuidv7.New(),
		UserID:    userID,
		Token:     token.String(),
		ExpiresAt: time.Now().UTC().Add(constants.DefaultVerificationTokenTTL),
	})
}

// ipv4OrNil returns the address when it is literal IPv4, otherwise nil.
// IPv6 peers are recorded as NULL; the inet column stays IPv4-only.
func ipv4OrNil(peerIP string) *string {
	ip := net.ParseIP(strings.TrimSpace(peerIP))
	if ip == nil {
		return nil
	}
	v4 := ip.To4()
	if v4 == nil {
		return nil
	}
	value := v4.String()
	return &value
}
