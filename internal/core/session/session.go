// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "time"

// Session is the server-side record of one issued refresh token.
//
// Revocation is monotonic: once IsActive goes false it never returns to true.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	LoggedInAt time.Time `json:"logged_in_at"`
	LoginIP    *string   `json:"login_ip"`
	ExpiresOn  time.Time `json:"expires_on"`
	// RefreshToken is the encoded JWT string backing this session. It is the
	// credential itself, so it never appears in API responses.
	RefreshToken string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	LoggedOutAt  *time.Time `json:"logged_out_at"`
	LogoutIP     *string    `json:"logout_ip"`
}

// Global field names for validation
const (
	FieldID     = "id"
	FieldUserID = "user_id"
)
