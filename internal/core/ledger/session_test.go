package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/core/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testUserID = "user-1"

var errBackendDown = errors.New("backend unavailable")

type SessionTestSuite struct {
	suite.Suite
	repo    *MockTransactionRepository
	session *ledger.Session
	ctx     context.Context
	now     time.Time
	seq     atomic.Int64
}

func (s *SessionTestSuite) SetupTest() {
	s.repo = new(MockTransactionRepository)
	s.ctx = context.Background()
	s.now = time.Date(2024, time.April, 1, 12, 0, 0, 0, time.UTC)
	s.seq.Store(0)
	s.session = ledger.NewSession(testUserID, s.repo,
		ledger.WithClock(func() time.Time { return s.now }),
		ledger.WithIDGenerator(func() string { return fmt.Sprintf("new-%d", s.seq.Add(1)) }),
	)
}

func (s *SessionTestSuite) TearDownTest() {
	s.session.Close()
}

func TestSessionTestSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

func (s *SessionTestSuite) seed(rows ...domain.Transaction) {
	s.repo.On("FindTransactionsByOwner", mock.Anything, testUserID).Return(rows, nil).Once()
	s.Require().NoError(s.session.Load(s.ctx))
}

func (s *SessionTestSuite) find(id string) domain.Transaction {
	for _, t := range s.session.Transactions() {
		if t.ID == id {
			return t
		}
	}
	s.FailNow("transaction not found", id)
	return domain.Transaction{}
}

func amountIs(want string) interface{} {
	return mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Amount.Equal(decimal.RequireFromString(want))
	})
}

// --- Load ---

func (s *SessionTestSuite) TestLoad_ReplacesStore() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	s.Len(s.session.Transactions(), 1)

	s.seed()
	s.Empty(s.session.Transactions())
}

func (s *SessionTestSuite) TestLoad_BackendError() {
	s.repo.On("FindTransactionsByOwner", mock.Anything, testUserID).Return(nil, errBackendDown).Once()

	err := s.session.Load(s.ctx)

	s.ErrorIs(err, errBackendDown)
	s.Empty(s.session.Transactions())
}

// --- Create ---

func (s *SessionTestSuite) TestCreate_SignsAmountByDirection() {
	s.repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil).Twice()

	lent, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "500", Direction: domain.Lend})
	s.Require().NoError(err)
	borrowed, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "500", Direction: domain.Borrow})
	s.Require().NoError(err)

	assertDecimal(s.T(), "500", lent.Amount)
	assertDecimal(s.T(), "-500", borrowed.Amount)
	s.Equal(testUserID, lent.UserID)
	s.Equal(s.now, lent.Date, "date defaults to now")
	s.False(lent.IsPaid)
	s.Equal([]string{"new-2", "new-1"}, ids(s.session.Transactions()), "new rows are prepended")
	s.repo.AssertCalled(s.T(), "SaveTransaction", mock.Anything, lent)
}

func (s *SessionTestSuite) TestCreate_UsesGivenDate() {
	s.repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil).Once()
	date := day(-5)

	created, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Rahim", Amount: "12.50", Direction: domain.Lend, Date: &date, Notes: "rice"})

	s.Require().NoError(err)
	s.Equal(date, created.Date)
	s.Equal(s.now, created.CreatedAt)
	s.Equal("rice", created.Notes)
}

func (s *SessionTestSuite) TestCreate_ValidationErrors() {
	cases := map[string]ledger.CreateInput{
		"zero amount":       {CustomerName: "Karim", Amount: "0", Direction: domain.Lend},
		"negative amount":   {CustomerName: "Karim", Amount: "-5", Direction: domain.Lend},
		"non numeric":       {CustomerName: "Karim", Amount: "abc", Direction: domain.Lend},
		"below one paisa":   {CustomerName: "Karim", Amount: "0.001", Direction: domain.Lend},
		"three decimals":    {CustomerName: "Karim", Amount: "1.005", Direction: domain.Borrow},
		"too large":         {CustomerName: "Karim", Amount: "10000000000000000", Direction: domain.Lend},
		"missing amount":    {CustomerName: "Karim", Direction: domain.Lend},
		"blank name":        {CustomerName: "   ", Amount: "5", Direction: domain.Lend},
		"unknown direction": {CustomerName: "Karim", Amount: "5", Direction: "gift"},
	}

	for name, in := range cases {
		s.Run(name, func() {
			_, err := s.session.Create(s.ctx, in)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.Empty(s.session.Transactions())
	s.repo.AssertNotCalled(s.T(), "SaveTransaction", mock.Anything, mock.Anything)
}

func (s *SessionTestSuite) TestCreate_DisplayNameIsFirstInserted() {
	s.repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil).Times(3)

	for _, name := range []string{"Karim", "karim", " Karim "} {
		_, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: name, Amount: "10", Direction: domain.Lend})
		s.Require().NoError(err)
		s.now = s.now.Add(time.Minute)
	}

	customers := s.session.Customers(ledger.SortByRecent, nil)
	s.Require().Len(customers, 1)
	s.Equal("Karim", customers[0].Name)
	s.Len(customers[0].Transactions, 3)

	summary, _, err := s.session.Customer("KARIM")
	s.Require().NoError(err)
	s.Equal("Karim", summary.Name)
}

func (s *SessionTestSuite) TestCreate_TrailingZerosAreAccepted() {
	s.repo.On("SaveTransaction", mock.Anything, amountIs("1.5")).Return(nil).Once()

	created, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "1.500", Direction: domain.Lend})

	s.Require().NoError(err)
	assertDecimal(s.T(), "1.5", created.Amount)
	s.repo.AssertExpectations(s.T())
}

func (s *SessionTestSuite) TestCreate_PersistFailureRestoresSnapshot() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("r1", "Rahim", "-50", true, day(1)),
	)
	before := s.session.Transactions()
	s.repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(errBackendDown).Once()

	_, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "10", Direction: domain.Lend})

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.ErrorIs(err, errBackendDown)
	s.Equal(before, s.session.Transactions())
}

// --- TogglePaid ---

func (s *SessionTestSuite) TestTogglePaid_Twice() {
	s.seed(txn("r1", "Rahim", "200", false, day(0)))
	s.repo.On("SetTransactionPaid", mock.Anything, testUserID, "r1", true).Return(nil).Once()
	s.repo.On("SetTransactionPaid", mock.Anything, testUserID, "r1", false).Return(nil).Once()

	first, err := s.session.TogglePaid(s.ctx, "r1")
	s.Require().NoError(err)
	s.True(first.IsPaid)

	second, err := s.session.TogglePaid(s.ctx, "r1")
	s.Require().NoError(err)
	s.False(second.IsPaid)
	s.repo.AssertExpectations(s.T())
}

func (s *SessionTestSuite) TestTogglePaid_NotFound() {
	s.seed(txn("r1", "Rahim", "200", false, day(0)))

	_, err := s.session.TogglePaid(s.ctx, "missing")

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.repo.AssertNotCalled(s.T(), "SetTransactionPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *SessionTestSuite) TestTogglePaid_PersistFailureRestoresFlag() {
	s.seed(txn("r1", "Rahim", "200", false, day(0)))
	s.repo.On("SetTransactionPaid", mock.Anything, testUserID, "r1", true).Return(errBackendDown).Once()

	_, err := s.session.TogglePaid(s.ctx, "r1")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.False(s.find("r1").IsPaid)
}

// --- Update ---

func (s *SessionTestSuite) TestUpdate_DirectionOnlyResignsExistingAmount() {
	s.seed(txn("b1", "Karim", "-300", false, day(0)))
	s.repo.On("UpdateTransaction", mock.Anything, amountIs("300")).Return(nil).Once()
	lend := domain.Lend

	updated, err := s.session.Update(s.ctx, "b1", ledger.UpdateInput{Direction: &lend})

	s.Require().NoError(err)
	assertDecimal(s.T(), "300", updated.Amount)
	assertDecimal(s.T(), "300", s.find("b1").Amount)
	s.repo.AssertExpectations(s.T())
}

func (s *SessionTestSuite) TestUpdate_AmountWithDirection() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	s.repo.On("UpdateTransaction", mock.Anything, amountIs("-250")).Return(nil).Once()
	borrow := domain.Borrow
	amount := "250"

	updated, err := s.session.Update(s.ctx, "k1", ledger.UpdateInput{Amount: &amount, Direction: &borrow})

	s.Require().NoError(err)
	assertDecimal(s.T(), "-250", updated.Amount)
}

func (s *SessionTestSuite) TestUpdate_RawAmountAndNotes() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	s.repo.On("UpdateTransaction", mock.Anything, amountIs("-40")).Return(nil).Once()
	amount := "-40"
	notes := "returned half"

	updated, err := s.session.Update(s.ctx, "k1", ledger.UpdateInput{Amount: &amount, Notes: &notes})

	s.Require().NoError(err)
	assertDecimal(s.T(), "-40", updated.Amount)
	s.Equal("returned half", updated.Notes)
}

func (s *SessionTestSuite) TestUpdate_Validation() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	zero := "0"
	junk := "ten"
	subPaisa := "0.001"
	threeDecimals := "2.345"
	gift := domain.Direction("gift")

	for name, in := range map[string]ledger.UpdateInput{
		"empty":             {},
		"zero amount":       {Amount: &zero},
		"non numeric":       {Amount: &junk},
		"below one paisa":   {Amount: &subPaisa},
		"three decimals":    {Amount: &threeDecimals},
		"unknown direction": {Direction: &gift},
	} {
		s.Run(name, func() {
			_, err := s.session.Update(s.ctx, "k1", in)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	s.repo.AssertNotCalled(s.T(), "UpdateTransaction", mock.Anything, mock.Anything)
}

func (s *SessionTestSuite) TestUpdate_PersistFailureRestoresSnapshot() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	before := s.session.Transactions()
	s.repo.On("UpdateTransaction", mock.Anything, mock.Anything).Return(errBackendDown).Once()
	notes := "changed"

	_, err := s.session.Update(s.ctx, "k1", ledger.UpdateInput{Notes: &notes})

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(before, s.session.Transactions())
}

// --- Delete ---

func (s *SessionTestSuite) TestDelete() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("k2", "Karim", "50", false, day(1)),
	)
	s.repo.On("DeleteTransaction", mock.Anything, testUserID, "k1").Return(nil).Once()

	s.Require().NoError(s.session.Delete(s.ctx, "k1"))

	s.Equal([]string{"k2"}, ids(s.session.Transactions()))
}

func (s *SessionTestSuite) TestDelete_PersistFailureRestoresRow() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))
	before := s.session.Transactions()
	s.repo.On("DeleteTransaction", mock.Anything, testUserID, "k1").Return(errBackendDown).Once()

	err := s.session.Delete(s.ctx, "k1")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(before, s.session.Transactions())
}

// --- Bulk ---

func (s *SessionTestSuite) TestToggleAllPaidForCustomer() {
	s.seed(
		txn("r1", "Rahim", "100", false, day(0)),
		txn("r2", "rahim", "50", true, day(1)),
		txn("k1", "Karim", "70", false, day(2)),
	)
	s.repo.On("SetPaidByCustomer", mock.Anything, testUserID, "rahim", true).Return(nil).Once()
	s.repo.On("SetPaidByCustomer", mock.Anything, testUserID, "rahim", false).Return(nil).Once()

	paid, n, err := s.session.ToggleAllPaidForCustomer(s.ctx, "RAHIM ")
	s.Require().NoError(err)
	s.True(paid)
	s.Equal(2, n)
	s.True(s.find("r1").IsPaid)
	s.True(s.find("r2").IsPaid)
	s.False(s.find("k1").IsPaid)

	paid, _, err = s.session.ToggleAllPaidForCustomer(s.ctx, "Rahim")
	s.Require().NoError(err)
	s.False(paid)
	s.False(s.find("r1").IsPaid)
	s.False(s.find("r2").IsPaid)
	s.repo.AssertExpectations(s.T())
}

func (s *SessionTestSuite) TestSetAllPaidForCustomer_PersistFailure() {
	s.seed(
		txn("r1", "Rahim", "100", false, day(0)),
		txn("r2", "Rahim", "50", true, day(1)),
	)
	before := s.session.Transactions()
	s.repo.On("SetPaidByCustomer", mock.Anything, testUserID, "rahim", true).Return(errBackendDown).Once()

	_, err := s.session.SetAllPaidForCustomer(s.ctx, "Rahim", true)

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(before, s.session.Transactions())
}

func (s *SessionTestSuite) TestDeleteAllForCustomer() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("k2", " karim", "-30", true, day(1)),
		txn("r1", "Rahim", "10", false, day(2)),
	)
	s.repo.On("DeleteTransactionsByCustomer", mock.Anything, testUserID, "karim").Return(nil).Once()

	n, err := s.session.DeleteAllForCustomer(s.ctx, "Karim")

	s.Require().NoError(err)
	s.Equal(2, n)
	s.Equal([]string{"r1"}, ids(s.session.Transactions()))
}

func (s *SessionTestSuite) TestDeleteAllForCustomer_PersistFailureRestoresSnapshot() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("r1", "Rahim", "10", false, day(1)),
		txn("k2", "karim", "-30", true, day(2)),
	)
	before := s.session.Transactions()
	s.repo.On("DeleteTransactionsByCustomer", mock.Anything, testUserID, "karim").Return(errBackendDown).Once()

	_, err := s.session.DeleteAllForCustomer(s.ctx, "Karim")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(before, s.session.Transactions())
}

func (s *SessionTestSuite) TestCustomerOperations_UnknownCustomer() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))

	_, err := s.session.DeleteAllForCustomer(s.ctx, "Nobody")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, _, err = s.session.ToggleAllPaidForCustomer(s.ctx, "Nobody")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.session.DeleteAllPaidForCustomer(s.ctx, "Nobody")
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.session.DeleteAllForCustomer(s.ctx, "  ")
	s.ErrorIs(err, apperrors.ErrValidation)

	s.Len(s.repo.Calls, 1, "only the initial load reached the backend")
}

func (s *SessionTestSuite) TestDeleteAllPaidForCustomer_KeepsUnpaid() {
	s.seed(
		txn("r1", "Rahim", "100", true, day(0)),
		txn("r2", "Rahim", "40", false, day(1)),
		txn("k1", "Karim", "5", true, day(2)),
	)
	s.repo.On("DeletePaidByCustomer", mock.Anything, testUserID, "rahim").Return(nil).Once()

	n, err := s.session.DeleteAllPaidForCustomer(s.ctx, "Rahim")

	s.Require().NoError(err)
	s.Equal(1, n)
	s.ElementsMatch([]string{"r2", "k1"}, ids(s.session.Transactions()))
}

func (s *SessionTestSuite) TestDeleteAllPaidForCustomer_PersistFailureRestoresSnapshot() {
	s.seed(
		txn("r1", "Rahim", "100", true, day(0)),
		txn("k1", "Karim", "5", true, day(1)),
		txn("r2", "rahim", "40", false, day(2)),
	)
	before := s.session.Transactions()
	s.repo.On("DeletePaidByCustomer", mock.Anything, testUserID, "rahim").Return(errBackendDown).Once()

	_, err := s.session.DeleteAllPaidForCustomer(s.ctx, "Rahim")

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(before, s.session.Transactions())
}

func (s *SessionTestSuite) TestDeleteAllPaidForCustomer_NothingPaid() {
	s.seed(txn("r2", "Rahim", "40", false, day(1)))

	n, err := s.session.DeleteAllPaidForCustomer(s.ctx, "Rahim")

	s.Require().NoError(err)
	s.Zero(n)
	s.repo.AssertNotCalled(s.T(), "DeletePaidByCustomer", mock.Anything, mock.Anything, mock.Anything)
}

func (s *SessionTestSuite) TestClearRecent_KeepsBalances() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("k2", "Karim", "-30", true, day(1)),
		txn("r1", "Rahim", "10", false, day(2)),
	)
	totalsBefore := s.session.Totals()
	_, karimBefore, err := s.session.Customer("karim")
	s.Require().NoError(err)
	s.repo.On("HideFromRecent", mock.Anything, testUserID, []string{"k1", "k2"}).Return(nil).Once()

	n, err := s.session.ClearRecent(s.ctx, []string{"k2", "ghost", "k1", "k1"})

	s.Require().NoError(err)
	s.Equal(2, n)
	s.Equal(totalsBefore, s.session.Totals())
	_, karimAfter, err := s.session.Customer("karim")
	s.Require().NoError(err)
	s.Equal(karimBefore, karimAfter)
	recent, _ := s.session.Recent(10, nil)
	s.Equal([]string{"r1"}, ids(recent))
	s.Len(s.session.Customers(ledger.SortByRecent, nil), 2, "hidden rows still aggregate")
}

func (s *SessionTestSuite) TestClearRecent_Errors() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))

	_, err := s.session.ClearRecent(s.ctx, nil)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.session.ClearRecent(s.ctx, []string{"ghost"})
	s.ErrorIs(err, apperrors.ErrNotFound)

	s.repo.On("HideFromRecent", mock.Anything, testUserID, []string{"k1"}).Return(errBackendDown).Once()
	_, err = s.session.ClearRecent(s.ctx, []string{"k1"})
	s.ErrorIs(err, apperrors.ErrPersistence)
	s.False(s.find("k1").IsHiddenFromRecent)
}

func (s *SessionTestSuite) TestDeleteAll_StaysEmptyOnFailure() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("r1", "Rahim", "10", false, day(2)),
	)
	s.repo.On("DeleteAllByOwner", mock.Anything, testUserID).Return(errBackendDown).Once()

	n, err := s.session.DeleteAll(s.ctx)

	s.ErrorIs(err, apperrors.ErrPersistence)
	s.Equal(2, n)
	s.Empty(s.session.Transactions())
}

// --- Reads ---

func (s *SessionTestSuite) TestCustomers_DirectionFilter() {
	s.seed(
		txn("k1", "Karim", "100", false, day(0)),
		txn("k2", "Karim", "-30", false, day(1)),
		txn("r1", "Rahim", "-10", false, day(2)),
	)
	lend := domain.Lend

	all := s.session.Customers(ledger.SortByRecent, nil)
	receivable := s.session.Customers(ledger.SortByRecent, &lend)

	s.Len(all, 2)
	s.Require().Len(receivable, 1)
	s.Equal("Karim", receivable[0].Name)
}

func (s *SessionTestSuite) TestCustomer_NotFound() {
	s.seed()

	_, _, err := s.session.Customer("Karim")

	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SessionTestSuite) TestSnapshotIsolation() {
	s.seed(txn("k1", "Karim", "100", false, day(0)))

	rows := s.session.Transactions()
	rows[0].IsPaid = true

	s.False(s.find("k1").IsPaid)
}

// --- Concurrency ---

func (s *SessionTestSuite) TestConcurrentMutationsAreSerialized() {
	s.repo.On("SaveTransaction", mock.Anything, mock.Anything).Return(nil)
	const workers = 25

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "1", Direction: domain.Lend})
			assert.NoError(s.T(), err)
		}()
	}
	wg.Wait()

	s.Len(s.session.Transactions(), workers)
	summaries := s.session.Customers(ledger.SortByRecent, nil)
	s.Require().Len(summaries, 1)
	assertDecimal(s.T(), "25", ledger.ComputeTotals(summaries[0]).TotalBaki)
}

func (s *SessionTestSuite) TestClosedSessionRejectsMutations() {
	s.session.Close()

	_, err := s.session.Create(s.ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "1", Direction: domain.Lend})

	s.ErrorIs(err, apperrors.ErrNoSession)
}

func TestDetachedSession(t *testing.T) {
	session := ledger.NewSession("", nil)
	defer session.Close()
	ctx := context.Background()

	assert.NoError(t, session.Load(ctx))
	assert.Empty(t, session.Customers(ledger.SortByRecent, nil))
	assert.Empty(t, session.Transactions())

	_, err := session.Create(ctx, ledger.CreateInput{CustomerName: "Karim", Amount: "1", Direction: domain.Lend})
	assert.ErrorIs(t, err, apperrors.ErrNoSession)
	_, err = session.DeleteAll(ctx)
	assert.ErrorIs(t, err, apperrors.ErrNoSession)
}
