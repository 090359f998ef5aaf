package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) ListCustomers(ctx context.Context, userID string, params dto.ListCustomersParams) ([]domain.CustomerSummary, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerSummary), args.Error(1)
}

func (m *MockLedgerService) GetCustomer(ctx context.Context, userID, customerName string) (*domain.CustomerSummary, *domain.CustomerTotals, error) {
	args := m.Called(ctx, userID, customerName)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.CustomerSummary), args.Get(1).(*domain.CustomerTotals), args.Error(2)
}

func (m *MockLedgerService) GetTotals(ctx context.Context, userID string) (*domain.LedgerTotals, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerTotals), args.Error(1)
}

func (m *MockLedgerService) ListRecent(ctx context.Context, userID string, params dto.ListRecentParams) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	next, _ := args.Get(1).(*string)
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockLedgerService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ToggleTransactionPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) EvictIdle(ctx context.Context, idleFor time.Duration) int {
	return m.Called(ctx, idleFor).Int(0)
}

func (m *MockLedgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return m.Called(ctx, userID, transactionID).Error(0)
}

func (m *MockLedgerService) DeleteCustomerTransactions(ctx context.Context, userID, customerName string) (int, error) {
	args := m.Called(ctx, userID, customerName)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) ToggleCustomerPaid(ctx context.Context, userID, customerName string) (bool, int, error) {
	args := m.Called(ctx, userID, customerName)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockLedgerService) SetCustomerPaid(ctx context.Context, userID, customerName string, paid bool) (int, error) {
	args := m.Called(ctx, userID, customerName, paid)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) DeleteCustomerPaidTransactions(ctx context.Context, userID, customerName string) (int, error) {
	args := m.Called(ctx, userID, customerName)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) ClearRecent(ctx context.Context, userID string, transactionIDs []string) (int, error) {
	args := m.Called(ctx, userID, transactionIDs)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) DeleteAllTransactions(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockLedgerService) ReloadSession(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockLedgerService) ResetSession(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *MockLedgerService) Shutdown() {
	m.Called()
}

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) DeleteAccount(ctx context.Context, userID string) (*domain.AccountDeletion, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountDeletion), args.Error(1)
}
