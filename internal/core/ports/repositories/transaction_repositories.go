package repositories

import (
	"context"

	"github.com/SscSPs/baki_khata/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions.
type TransactionReader interface {
	// FindTransactionsByOwner returns every transaction owned by the user, most recent first.
	FindTransactionsByOwner(ctx context.Context, userID string) ([]domain.Transaction, error)
}

// TransactionWriter defines single-row write operations.
// Every call is atomic for its row only.
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction writes the mutable fields (amount, notes) of an existing transaction.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// SetTransactionPaid writes the paid flag of one transaction.
	SetTransactionPaid(ctx context.Context, userID, transactionID string, paid bool) error

	// DeleteTransaction removes one transaction.
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// TransactionBulkWriter defines predicate-filtered writes. Rows are written
// independently; a failure may leave some rows changed.
type TransactionBulkWriter interface {
	// DeleteTransactionsByCustomer removes all rows whose normalized customer name equals customerKey.
	DeleteTransactionsByCustomer(ctx context.Context, userID, customerKey string) error

	// SetPaidByCustomer sets the paid flag on all rows for customerKey.
	SetPaidByCustomer(ctx context.Context, userID, customerKey string, paid bool) error

	// DeletePaidByCustomer removes the paid rows for customerKey.
	DeletePaidByCustomer(ctx context.Context, userID, customerKey string) error

	// HideFromRecent flags exactly the given ids as hidden from recent activity.
	HideFromRecent(ctx context.Context, userID string, transactionIDs []string) error

	// DeleteAllByOwner removes every row owned by the user.
	DeleteAllByOwner(ctx context.Context, userID string) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
// It is the persistence backend the ledger engine writes through.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionBulkWriter
}
