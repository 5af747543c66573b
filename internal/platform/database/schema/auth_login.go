package schema

// AuthLoginTable represents the 'logins' journal table
type AuthLoginTable struct {
	Table   string
	ID      string
	UserID  string
	LoginOn string
	LoginIP string
}

// AuthLogin is the schema definition for logins
var AuthLogin = AuthLoginTable{
	Table:   "logins",
	ID:      "id",
	UserID:  "user_id",
	LoginOn: "login_on",
	LoginIP: "login_ip",
}

// Columns returns all standard column names
func (t AuthLoginTable) Columns() []string {
	return []string{t.ID, t.UserID, t.LoginOn, t.LoginIP}
}
