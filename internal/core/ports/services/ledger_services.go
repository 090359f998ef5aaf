package services

import (
	"context"
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/dto"
)

// LedgerReaderSvc exposes the derived views of a user's ledger.
// Reads reflect optimistic state, including writes still being persisted.
type LedgerReaderSvc interface {
	ListCustomers(ctx context.Context, userID string, params dto.ListCustomersParams) ([]domain.CustomerSummary, error)
	GetCustomer(ctx context.Context, userID, customerName string) (*domain.CustomerSummary, *domain.CustomerTotals, error)
	GetTotals(ctx context.Context, userID string) (*domain.LedgerTotals, error)
	// ListRecent returns one page of recent activity and the token of the next page, if any.
	ListRecent(ctx context.Context, userID string, params dto.ListRecentParams) ([]domain.Transaction, *string, error)
}

// LedgerWriterSvc defines single-transaction mutations.
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)
	ToggleTransactionPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
}

// LedgerBulkSvc defines customer-scoped and id-set mutations. Counts are the
// number of local rows affected.
type LedgerBulkSvc interface {
	DeleteCustomerTransactions(ctx context.Context, userID, customerName string) (int, error)
	// ToggleCustomerPaid returns the paid state every row was set to.
	ToggleCustomerPaid(ctx context.Context, userID, customerName string) (bool, int, error)
	SetCustomerPaid(ctx context.Context, userID, customerName string, paid bool) (int, error)
	DeleteCustomerPaidTransactions(ctx context.Context, userID, customerName string) (int, error)
	ClearRecent(ctx context.Context, userID string, transactionIDs []string) (int, error)
	DeleteAllTransactions(ctx context.Context, userID string) (int, error)
}

// LedgerSessionSvc manages the in-memory sessions backing the ledger.
type LedgerSessionSvc interface {
	// ReloadSession replaces the user's in-memory ledger with the backend's rows.
	ReloadSession(ctx context.Context, userID string) error
	// ResetSession drops the user's in-memory ledger. The next access reloads it.
	ResetSession(ctx context.Context, userID string)
	// EvictIdle drops sessions unused for at least idleFor and reports how many.
	EvictIdle(ctx context.Context, idleFor time.Duration) int
	// Shutdown stops every session after queued mutations finish.
	Shutdown()
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	LedgerBulkSvc
	LedgerSessionSvc
}
