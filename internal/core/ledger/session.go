package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	"github.com/google/uuid"
)

const defaultQueueSize = 64

// Session is one user's ledger: the in-memory store plus the coordinator
// that writes to it. A session with an empty user id is detached; its reads
// are empty and every mutation fails with apperrors.ErrNoSession.
type Session struct {
	*Coordinator
}

// SessionOption configures a Session.
type SessionOption func(*Coordinator)

// WithLogger sets the logger used for mutation outcomes.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for new transactions.
func WithClock(now func() time.Time) SessionOption {
	return func(c *Coordinator) { c.now = now }
}

// WithIDGenerator overrides how new transaction ids are minted.
func WithIDGenerator(newID func() string) SessionOption {
	return func(c *Coordinator) { c.newID = newID }
}

// WithQueueSize sets how many mutations may wait for the writer.
func WithQueueSize(n int) SessionOption {
	return func(c *Coordinator) { c.op = newOperator(n) }
}

// NewSession creates and starts a session for userID backed by repo.
// Call Load to fill it and Close to stop it.
func NewSession(userID string, repo portsrepo.TransactionRepositoryFacade, opts ...SessionOption) *Session {
	c := &Coordinator{
		userID: userID,
		store:  NewStore(),
		repo:   repo,
		op:     newOperator(defaultQueueSize),
		logger: slog.Default(),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("user_id", userID))
	c.op.start()
	return &Session{Coordinator: c}
}

// UserID returns the id of the session owner.
func (s *Session) UserID() string { return s.userID }

// Load replaces the store with the backend's current rows. It is queued
// behind in-flight mutations.
func (s *Session) Load(ctx context.Context) error {
	if s.userID == "" {
		return nil
	}
	return s.op.process(ctx, func(ctx context.Context) error {
		txs, err := s.repo.FindTransactionsByOwner(ctx, s.userID)
		if err != nil {
			return fmt.Errorf("loading ledger: %w", err)
		}
		s.store.ReplaceAll(txs)
		s.logger.InfoContext(ctx, "Ledger loaded", slog.Int("transactions", len(txs)))
		return nil
	})
}

// Close stops the writer goroutine after queued mutations finish.
func (s *Session) Close() {
	s.op.stop()
}

// Transactions returns a copy of every stored row, most recent first.
func (s *Session) Transactions() []domain.Transaction {
	return s.store.Snapshot()
}

// Customers returns the aggregated summaries, optionally restricted to one
// direction, in the requested order.
func (s *Session) Customers(order SortOrder, direction *domain.Direction) []domain.CustomerSummary {
	txs := s.store.Snapshot()
	if direction != nil {
		txs = FilterByDirection(txs, *direction)
	}
	return SortSummaries(Aggregate(txs), order)
}

// Customer returns the summary and totals of one customer.
func (s *Session) Customer(name string) (domain.CustomerSummary, domain.CustomerTotals, error) {
	summary, ok := FindCustomer(s.store.Snapshot(), name)
	if !ok {
		return domain.CustomerSummary{}, domain.CustomerTotals{}, customerNotFound(name)
	}
	return summary, ComputeTotals(summary), nil
}

// Totals returns the ledger-wide outstanding amounts.
func (s *Session) Totals() domain.LedgerTotals {
	return ComputeLedgerTotals(s.store.Snapshot())
}

// Recent returns one page of recent activity.
func (s *Session) Recent(limit int, after *RecentCursor) ([]domain.Transaction, *RecentCursor) {
	return RecentActivity(s.store.Snapshot(), limit, after)
}
