package schema

// AuthSessionTable represents the 'sessions' table
type AuthSessionTable struct {
	Table        string
	ID           string
	UserID       string
	LoggedInAt   string
	LoginIP      string
	ExpiresOn    string
	RefreshToken string
	IsActive     string
	LoggedOutAt  string
	LogoutIP     string
}

// AuthSession is the schema definition for sessions
var AuthSession = AuthSessionTable{
	Table:        "sessions",
	ID:           "id",
	UserID:       "user_id",
	LoggedInAt:   "logged_in_at",
	LoginIP:      "login_ip",
	ExpiresOn:    "expires_on",
	RefreshToken: "refresh_token",
	IsActive:     "is_active",
	LoggedOutAt:  "logged_out_at",
	LogoutIP:     "logout_ip",
}

// Columns returns all standard column names
func (t AuthSessionTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.LoggedInAt, t.LoginIP, t.ExpiresOn,
		t.RefreshToken, t.IsActive, t.LoggedOutAt, t.LogoutIP,
	}
}
