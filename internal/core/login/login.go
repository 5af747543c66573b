// Copyright (c) 2026 Authgate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package login

import "time"

// Login is one immutable audit row recording a successful authentication.
// Rows are never updated in normal operation; the administrative Update
// exists only for manual correction of the journal.
type Login struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	LoginOn time.Time `json:"login_on"`
	LoginIP *string   `json:"login_ip"`
}

// Global field names for validation
const (
	FieldID     = "id"
	FieldUserID = "user_id"
)
