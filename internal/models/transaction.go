package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerTransaction is one row of the ledger_transactions table.
// CustomerKey holds the normalized customer name used by bulk statements.
type LedgerTransaction struct {
	TransactionID      string          `db:"transaction_id"`
	UserID             string          `db:"user_id"`
	CustomerName       string          `db:"customer_name"`
	CustomerKey        string          `db:"customer_key"`
	Amount             decimal.Decimal `db:"amount"` // Signed; never zero
	IsPaid             bool            `db:"is_paid"`
	TransactionDate    time.Time       `db:"transaction_date"`
	Notes              sql.NullString  `db:"notes"`
	CreatedAt          time.Time       `db:"created_at"`
	IsHiddenFromRecent bool            `db:"is_hidden_from_recent"`
}
