package domain

// User is the account record owning a ledger. Its UserID is the session id.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	AuditFields
}

// AccountDeletion reports the outcome of an account teardown.
type AccountDeletion struct {
	TransactionsDeleted int    `json:"transactionsDeleted"`
	AccountDeleted      bool   `json:"accountDeleted"`
	Warning             string `json:"warning,omitempty"`
}
