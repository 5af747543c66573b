// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/authgate/internal/auth"
	"github.com/taibuivan/authgate/internal/core/login"
	"github.com/taibuivan/authgate/internal/core/session"
	"github.com/taibuivan/authgate/internal/core/user"
	"github.com/taibuivan/authgate/internal/core/verification"
	"github.com/taibuivan/authgate/internal/platform/apperr"
	"github.com/taibuivan/authgate/internal/platform/dberr"
	"github.com/taibuivan/authgate/internal/platform/sec"
	"github.com/taibuivan/authgate/pkg/pagination"
	"github.com/taibuivan/authgate/pkg/uuidv7"
)

// # In-Memory Stores

type fakeUserStore struct {
	mu   sync.Mutex
	rows map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: map[string]*user.User{}}
}

func (f *fakeUserStore) Insert(_ context.Context, u *user.User) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.Email == u.Email {
			return nil, apperr.ConstraintViolation("users_email_key", user.FieldEmail, "Email already exists", true)
		}
	}
	clone := *u
	f.rows[u.ID] = &clone
	return &clone, nil
}

func (f *fakeUserStore) InsertMany(_ context.Context, users []*user.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range users {
		clone := *u
		f.rows[u.ID] = &clone
	}
	return int64(len(users)), nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeUserStore) Update(_ context.Context, u *user.User) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[u.ID]; !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *u
	f.rows[u.ID] = &clone
	return &clone, nil
}

func (f *fakeUserStore) DeleteByID(_ context.Context, id string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakeUserStore) Index(_ context.Context, _ pagination.Params) ([]*user.User, error) {
	return nil, nil
}

func (f *fakeUserStore) IndexCursor(_ context.Context, _ int64, _ *pagination.Cursor) ([]*user.User, error) {
	return nil, nil
}

type fakeSessionStore struct {
	mu   sync.Mutex
	rows []*session.Session
}

func (f *fakeSessionStore) Insert(_ context.Context, s *session.Session) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.rows {
		if existing.RefreshToken == s.RefreshToken {
			return nil, apperr.ConstraintViolation("sessions_refresh_token_key", "refresh_token", "Refresh token already exists", true)
		}
	}
	clone := *s
	f.rows = append(f.rows, &clone)
	return &clone, nil
}

func (f *fakeSessionStore) FindByID(_ context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.ID == id {
			clone := *s
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeSessionStore) FindByToken(_ context.Context, refreshToken string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		if s.RefreshToken == refreshToken {
			clone := *s
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeSessionStore) Index(_ context.Context, _ pagination.Params) ([]*session.Session, error) {
	return nil, nil
}

func (f *fakeSessionStore) IndexCursor(_ context.Context, _ int64, _ *pagination.Cursor) ([]*session.Session, error) {
	return nil, nil
}

func (f *fakeSessionStore) IndexByUser(_ context.Context, userID string, _ pagination.Params) ([]*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*session.Session
	for _, s := range f.rows {
		if s.UserID == userID {
			clone := *s
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (f *fakeSessionStore) revoke(s *session.Session, logoutIP string) {
	now := time.Now().UTC()
	s.IsActive = false
	s.LoggedOutAt = &now
	if logoutIP != "" {
		ip := logoutIP
		s.LogoutIP = &ip
	}
}

func (f *fakeSessionStore) RevokeByID(_ context.Context, id string, logoutIP string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, s := range f.rows {
		if s.ID == id {
			f.revoke(s, logoutIP)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeSessionStore) RevokeAllForUser(_ context.Context, userID string, logoutIP string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var affected int64
	for _, s := range f.rows {
		if s.UserID == userID {
			f.revoke(s, logoutIP)
			affected++
		}
	}
	return affected, nil
}

func (f *fakeSessionStore) RevokeAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.rows {
		f.revoke(s, "")
	}
	return int64(len(f.rows)), nil
}

func (f *fakeSessionStore) DeleteByID(_ context.Context, _ string) (int64, error)       { return 0, nil }
func (f *fakeSessionStore) DeleteAllForUser(_ context.Context, _ string) (int64, error) { return 0, nil }
func (f *fakeSessionStore) DeleteExpired(_ context.Context) (int64, error)              { return 0, nil }
func (f *fakeSessionStore) DeleteAll(_ context.Context) (int64, error)                  { return 0, nil }

func (f *fakeSessionStore) active() []*session.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*session.Session
	for _, s := range f.rows {
		if s.IsActive {
			clone := *s
			matched = append(matched, &clone)
		}
	}
	return matched
}

func (f *fakeSessionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeLoginStore struct {
	mu   sync.Mutex
	rows []*login.Login
}

func (f *fakeLoginStore) Insert(_ context.Context, l *login.Login) (*login.Login, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *l
	f.rows = append(f.rows, &clone)
	return &clone, nil
}

func (f *fakeLoginStore) FindByID(_ context.Context, _ string) (*login.Login, error) {
	return nil, dberr.ErrNotFound
}

func (f *fakeLoginStore) Index(_ context.Context, _ pagination.Params) ([]*login.Login, error) {
	return nil, nil
}

func (f *fakeLoginStore) IndexCursor(_ context.Context, _ int64, _ *pagination.Cursor) ([]*login.Login, error) {
	return nil, nil
}

func (f *fakeLoginStore) IndexByUser(_ context.Context, _ string, _ pagination.Params) ([]*login.Login, error) {
	return nil, nil
}

func (f *fakeLoginStore) Update(_ context.Context, l *login.Login) (*login.Login, error) {
	return l, nil
}

func (f *fakeLoginStore) DeleteByID(_ context.Context, _ string) (int64, error) { return 0, nil }

func (f *fakeLoginStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeVerificationStore struct {
	mu   sync.Mutex
	rows map[string]*verification.EmailVerification
}

func newFakeVerificationStore() *fakeVerificationStore {
	return &fakeVerificationStore{rows: map[string]*verification.EmailVerification{}}
}

func (f *fakeVerificationStore) Insert(_ context.Context, v *verification.EmailVerification) (*verification.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *v
	clone.CreatedAt = time.Now().UTC()
	f.rows[v.ID] = &clone
	return &clone, nil
}

func (f *fakeVerificationStore) InsertBatch(context context.Context, batch []*verification.EmailVerification) (int64, error) {
	for _, v := range batch {
		if _, err := f.Insert(context, v); err != nil {
			return 0, err
		}
	}
	return int64(len(batch)), nil
}

func (f *fakeVerificationStore) Upsert(context context.Context, v *verification.EmailVerification) (*verification.EmailVerification, error) {
	return f.Insert(context, v)
}

func (f *fakeVerificationStore) FindByID(_ context.Context, id string) (*verification.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.rows[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *v
	return &clone, nil
}

func (f *fakeVerificationStore) FindByToken(_ context.Context, token string) (*verification.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.rows {
		if v.Token == token {
			clone := *v
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (f *fakeVerificationStore) Update(_ context.Context, v *verification.EmailVerification) (*verification.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[v.ID]; !ok {
		return nil, dberr.ErrNotFound
	}
	now := time.Now().UTC()
	clone := *v
	clone.UpdatedAt = &now
	f.rows[v.ID] = &clone
	return &clone, nil
}

func (f *fakeVerificationStore) Index(_ context.Context, _ pagination.Params) ([]*verification.EmailVerification, error) {
	return nil, nil
}

func (f *fakeVerificationStore) IndexCursor(_ context.Context, _ int64, _ *pagination.Cursor) ([]*verification.EmailVerification, error) {
	return nil, nil
}

func (f *fakeVerificationStore) IndexByUser(_ context.Context, userID string, _ pagination.Params) ([]*verification.EmailVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*verification.EmailVerification
	for _, v := range f.rows {
		if v.UserID == userID {
			clone := *v
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (f *fakeVerificationStore) IndexByUserCursor(_ context.Context, _ string, _ int64, _ *pagination.Cursor) ([]*verification.EmailVerification, error) {
	return nil, nil
}

func (f *fakeVerificationStore) DeleteByID(_ context.Context, _ string) (int64, error)        { return 0, nil }
func (f *fakeVerificationStore) DeleteByToken(_ context.Context, _ string) (int64, error)     { return 0, nil }
func (f *fakeVerificationStore) DeleteAllForUser(_ context.Context, _ string) (int64, error)  { return 0, nil }
func (f *fakeVerificationStore) DeleteExpired(_ context.Context) (int64, error)               { return 0, nil }
func (f *fakeVerificationStore) DeleteUsed(_ context.Context) (int64, error)                  { return 0, nil }
func (f *fakeVerificationStore) DeleteOlderThan(_ context.Context, _ time.Duration) (int64, error) {
	return 0, nil
}
func (f *fakeVerificationStore) DeleteByIDs(_ context.Context, _ []string) (int64, error) {
	return 0, nil
}
func (f *fakeVerificationStore) DeleteAll(_ context.Context) (int64, error) { return 0, nil }

type fakeResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newFakeResetTokenStore() *fakeResetTokenStore {
	return &fakeResetTokenStore{tokens: map[string]string{}}
}

func (f *fakeResetTokenStore) Save(_ context.Context, email, token string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[email] = token
	return nil
}

func (f *fakeResetTokenStore) Find(_ context.Context, email string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[email]
	if !ok {
		return "", auth.ErrResetTokenNotFound
	}
	return token, nil
}

func (f *fakeResetTokenStore) Delete(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, email)
	return nil
}

// # Test Fixture

const (
	alicePassword = "Str0ng!Password"
	aliceEmail    = "alice@example.test"
)

type fixture struct {
	service       *auth.Service
	codec         *sec.Codec
	users         *fakeUserStore
	sessions      *fakeSessionStore
	logins        *fakeLoginStore
	verifications *fakeVerificationStore
	resetTokens   *fakeResetTokenStore
	alice         *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codec := sec.NewCodec(sec.NewSecret("unit-test-signing-secret"), "authgate.test")

	hash, err := sec.HashPassword(alicePassword)
	require.NoError(t, err)

	alice := &user.User{
		ID:           uuidv7.New(),
		Email:        aliceEmail,
		Name:         "Alice",
		PasswordHash: hash,
		Role:         sec.RoleUser,
		IsActive:     true,
		IsVerified:   true,
		CreatedOn:    time.Now().UTC(),
	}

	users := newFakeUserStore()
	users.rows[alice.ID] = alice

	sessions := &fakeSessionStore{}
	logins := &fakeLoginStore{}
	verifications := newFakeVerificationStore()
	resetTokens := newFakeResetTokenStore()

	service := auth.NewService(users, sessions, logins, verifications, resetTokens,
		codec, 5*time.Minute, 2*time.Hour,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	return &fixture{
		service:       service,
		codec:         codec,
		users:         users,
		sessions:      sessions,
		logins:        logins,
		verifications: verifications,
		resetTokens:   resetTokens,
		alice:         alice,
	}
}

func assertOpaque(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeUnauthorized, ae.Code)
	assert.Equal(t, "authentication failed", ae.Message)
}

// # Scenarios

func TestLogin_HappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair, err := f.service.Login(ctx, aliceEmail, alicePassword, "203.0.113.7")
	require.NoError(t, err)

	access, err := sec.ParseAccessToken(f.codec, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, access.Claim().UserID())

	refresh, err := sec.ParseRefreshToken(f.codec, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, refresh.Claim().UserID())

	active := f.sessions.active()
	require.Len(t, active, 1)
	assert.Equal(t, pair.RefreshToken, active[0].RefreshToken)
	assert.Equal(t, f.alice.ID, active[0].UserID)
	require.NotNil(t, active[0].LoginIP)
	assert.Equal(t, "203.0.113.7", *active[0].LoginIP)

	assert.Equal(t, 1, f.logins.count())
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), aliceEmail, "wrong", "203.0.113.7")
	assertOpaque(t, err)

	assert.Equal(t, 0, f.sessions.count())
	assert.Equal(t, 0, f.logins.count())
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), "nobody@example.test", alicePassword, "")
	assertOpaque(t, err)
}

func TestLogin_BadEmailSyntax(t *testing.T) {
	f := newFixture(t)

	// Same opaque surface as an unknown user, never a validation error.
	_, err := f.service.Login(context.Background(), "not an email", alicePassword, "")
	assertOpaque(t, err)
}

func TestLogin_IPv6PeerStoredAsNull(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Login(context.Background(), aliceEmail, alicePassword, "2001:db8::1")
	require.NoError(t, err)

	active := f.sessions.active()
	require.Len(t, active, 1)
	assert.Nil(t, active[0].LoginIP)
}

func TestRefresh_Rotation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pairA, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)
	_, err = f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)
	require.Len(t, f.sessions.active(), 2)

	pairNew, err := f.service.Refresh(ctx, pairA.RefreshToken)
	require.NoError(t, err)

	// Every prior session is dead; exactly one fresh one replaces them.
	active := f.sessions.active()
	require.Len(t, active, 1)
	assert.Equal(t, pairNew.RefreshToken, active[0].RefreshToken)
	assert.NotEqual(t, pairA.RefreshToken, pairNew.RefreshToken)
	assert.Equal(t, 3, f.sessions.count())
}

func TestRefresh_ReuseDetection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)

	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	countAfterRotation := f.sessions.count()

	// Replaying the rotated token must fail and mint nothing.
	_, err = f.service.Refresh(ctx, pair.RefreshToken)
	assertOpaque(t, err)
	assert.Equal(t, countAfterRotation, f.sessions.count())
}

func TestRefresh_GarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Refresh(context.Background(), "not-a-jwt")
	assertOpaque(t, err)
}

func TestLogout_Everywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var pair *auth.TokenPair
	for i := 0; i < 3; i++ {
		var err error
		pair, err = f.service.Login(ctx, aliceEmail, alicePassword, "")
		require.NoError(t, err)
	}
	require.Len(t, f.sessions.active(), 3)

	affected, err := f.service.Logout(ctx, pair.RefreshToken, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.Empty(t, f.sessions.active())
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)

	const newPassword = "N3w!Password-Long"
	fresh, err := f.service.UpdatePassword(ctx, pair.AccessToken, alicePassword, newPassword, "")
	require.NoError(t, err)

	// Old sessions are gone; the returned pair carries the only live one.
	active := f.sessions.active()
	require.Len(t, active, 1)
	assert.Equal(t, fresh.RefreshToken, active[0].RefreshToken)

	// Old password no longer works, new one does.
	_, err = f.service.Login(ctx, aliceEmail, alicePassword, "")
	assertOpaque(t, err)
	_, err = f.service.Login(ctx, aliceEmail, newPassword, "")
	require.NoError(t, err)
}

func TestUpdatePassword_UnverifiedAccountRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)

	f.alice.IsVerified = false
	f.users.rows[f.alice.ID] = f.alice

	_, err = f.service.UpdatePassword(ctx, pair.AccessToken, alicePassword, "N3w!Password-Long", "")
	assertOpaque(t, err)
}

func TestUpdatePassword_WrongKindOfToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pair, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)

	// A refresh token must never pass where an access token is required.
	_, err = f.service.UpdatePassword(ctx, pair.RefreshToken, alicePassword, "N3w!Password-Long", "")
	assertOpaque(t, err)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, pending, err := f.service.Register(ctx, auth.RegisterInput{
		Email:    "bob@example.test",
		Name:     "Bob",
		Password: "An0ther!Password",
	})
	require.NoError(t, err)

	assert.True(t, account.IsActive)
	assert.False(t, account.IsVerified)
	assert.Equal(t, sec.RoleUser, account.Role)

	require.NotNil(t, pending)
	assert.Equal(t, account.ID, pending.UserID)
	assert.False(t, pending.IsUsed)
	_, err = sec.ParseEmailVerificationToken(f.codec, pending.Token)
	assert.NoError(t, err)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.service.Register(context.Background(), auth.RegisterInput{
		Email:    aliceEmail,
		Name:     "Impostor",
		Password: "An0ther!Password",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
}

func TestVerifyEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	account, pending, err := f.service.Register(ctx, auth.RegisterInput{
		Email:    "bob@example.test",
		Name:     "Bob",
		Password: "An0ther!Password",
	})
	require.NoError(t, err)

	require.NoError(t, f.service.VerifyEmail(ctx, pending.Token))

	verified, err := f.users.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)

	consumed, err := f.verifications.FindByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.True(t, consumed.IsUsed)
	assert.NotNil(t, consumed.UpdatedAt)

	// Single use: a second consumption fails.
	assertOpaque(t, f.service.VerifyEmail(ctx, pending.Token))
}

func TestResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Login(ctx, aliceEmail, alicePassword, "")
	require.NoError(t, err)

	require.NoError(t, f.service.RequestPasswordReset(ctx, aliceEmail))
	token, err := f.resetTokens.Find(ctx, aliceEmail)
	require.NoError(t, err)

	const newPassword = "Res3t!Password-Long"
	require.NoError(t, f.service.ResetPassword(ctx, token, newPassword))

	// Token is single use and every session died.
	assertOpaque(t, f.service.ResetPassword(ctx, token, newPassword))
	assert.Empty(t, f.sessions.active())

	_, err = f.service.Login(ctx, aliceEmail, newPassword, "")
	require.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	f := newFixture(t)

	// Enumeration safety: same success surface for unknown accounts.
	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "nobody@example.test"))
	_, err := f.resetTokens.Find(context.Background(), "nobody@example.test")
	require.Error(t, err)
}
