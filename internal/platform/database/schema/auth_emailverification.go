package schema

// AuthEmailVerificationTable represents the 'email_verifications' table
type AuthEmailVerificationTable struct {
	Table     string
	ID        string
	UserID    string
	Token     string
	ExpiresAt string
	IsUsed    string
	CreatedAt string
	UpdatedAt string
}

// AuthEmailVerification is the schema definition for email_verifications
var AuthEmailVerification = AuthEmailVerificationTable{
	Table:     "email_verifications",
	ID:        "id",
	UserID:    "user_id",
	Token:     "token",
	ExpiresAt: "expires_at",
	IsUsed:    "is_used",
	CreatedAt: "created_at",
	UpdatedAt: "updated_at",
}

// Columns returns all standard column names
func (t AuthEmailVerificationTable) Columns() []string {
	return []string{
		t.ID, t.UserID, t.Token, t.ExpiresAt, t.IsUsed, t.CreatedAt, t.UpdatedAt,
	}
}
