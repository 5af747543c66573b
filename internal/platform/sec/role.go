// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted access to the administrative facades
	RoleAdmin UserRole = "admin"

	// Default role for standard registered accounts
	RoleUser UserRole = "user"

	// Unverified or limited account
	RoleGuest UserRole = "guest"
)

// ParseUserRole validates the lowercase string form of a role.
func ParseUserRole(value string) (UserRole, error) {
	switch UserRole(value) {
	case RoleAdmin, RoleUser, RoleGuest:
		return UserRole(value), nil
	default:
		return "", fmt.Errorf("sec: unknown user role %q", value)
	}
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-30) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 30
	case RoleUser:
		return 20
	case RoleGuest:
		return 10
	default:
		return 0
	}
}
