package ledger_test

import (
	"context"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionRepository ---
type MockTransactionRepository struct {
	mock.Mock
}

var _ portsrepo.TransactionRepositoryFacade = (*MockTransactionRepository)(nil)

func (m *MockTransactionRepository) FindTransactionsByOwner(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return m.Called(ctx, txn).Error(0)
}

func (m *MockTransactionRepository) SetTransactionPaid(ctx context.Context, userID, transactionID string, paid bool) error {
	return m.Called(ctx, userID, transactionID, paid).Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}

func (m *MockTransactionRepository) DeleteTransactionsByCustomer(ctx context.Context, userID, customerKey string) error {
	return m.Called(ctx, userID, customerKey).Error(0)
}

func (m *MockTransactionRepository) SetPaidByCustomer(ctx context.Context, userID, customerKey string, paid bool) error {
	return m.Called(ctx, userID, customerKey, paid).Error(0)
}

func (m *MockTransactionRepository) DeletePaidByCustomer(ctx context.Context, userID, customerKey string) error {
	return m.Called(ctx, userID, customerKey).Error(0)
}

func (m *MockTransactionRepository) HideFromRecent(ctx context.Context, userID string, transactionIDs []string) error {
	return m.Called(ctx, userID, transactionIDs).Error(0)
}

func (m *MockTransactionRepository) DeleteAllByOwner(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}
