package schema

// AuthUserTable represents the 'users' table
type AuthUserTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	IsActive     string
	IsVerified   string
	CreatedOn    string
}

// AuthUser is the schema definition for users
var AuthUser = AuthUserTable{
	Table:        "users",
	ID:           "id",
	Email:        "email",
	Name:         "name",
	PasswordHash: "password_hash",
	Role:         "role",
	IsActive:     "is_active",
	IsVerified:   "is_verified",
	CreatedOn:    "created_on",
}

// Columns returns all standard column names
func (t AuthUserTable) Columns() []string {
	return []string{
		t.ID, t.Email, t.Name, t.PasswordHash, t.Role,
		t.IsActive, t.IsVerified, t.CreatedOn,
	}
}
