// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"time"

	"github.com/taibuivan/authgate/internal/platform/sec"
)

// User represents one identity record.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"` // PHC string, never serialized
	Role         sec.UserRole `json:"role"`
	IsActive     bool         `json:"is_active"`
	IsVerified   bool         `json:"is_verified"`
	CreatedOn    time.Time    `json:"created_on"`
}

// Global field names for validation
const (
	FieldID       = "id"
	FieldEmail    = "email"
	FieldName     = "name"
	FieldPassword = "password"
	FieldRole     = "role"
)
