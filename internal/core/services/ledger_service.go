package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/core/ledger"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/SscSPs/baki_khata/internal/utils/pagination"
	"golang.org/x/sync/singleflight"
)

// maxLoadAttempts bounds how often a load is retried when the session is
// reset while it is loading.
const maxLoadAttempts = 3

// ledgerService keeps one in-memory ledger session per user. A session is
// loaded from the repository on first access and lives until it is reset or
// evicted as idle.
type ledgerService struct {
	BaseService
	repo     portsrepo.TransactionRepositoryFacade
	opts     []ledger.SessionOption
	detached *ledger.Session

	mu       sync.Mutex
	sessions map[string]*sessionEntry
	loading  map[string]*pendingLoad
	loads    singleflight.Group
}

type sessionEntry struct {
	sess     *ledger.Session
	lastUsed time.Time
}

// pendingLoad is marked stale by a reset that happens while it runs.
type pendingLoad struct {
	stale bool
}

// NewLedgerService creates a ledger service writing through repo.
func NewLedgerService(repo portsrepo.TransactionRepositoryFacade, opts ...ledger.SessionOption) portssvc.LedgerSvcFacade {
	return &ledgerService{
		repo:     repo,
		opts:     opts,
		detached: ledger.NewSession("", nil, opts...),
		sessions: make(map[string]*sessionEntry),
		loading:  make(map[string]*pendingLoad),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// session returns the user's session, loading it once if needed.
// An empty userID yields the detached session.
func (s *ledgerService) session(ctx context.Context, userID string) (*ledger.Session, error) {
	if userID == "" {
		return s.detached, nil
	}
	if sess, ok := s.touch(userID); ok {
		return sess, nil
	}

	v, err, _ := s.loads.Do(userID, func() (any, error) {
		return s.open(ctx, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to open ledger session", slog.String("user_id", userID))
		return nil, err
	}
	return v.(*ledger.Session), nil
}

// touch returns the cached session of userID and marks it used.
func (s *ledgerService) touch(userID string) (*ledger.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	entry.lastUsed = time.Now()
	return entry.sess, true
}

// open loads a new session and caches it unless a reset ran meanwhile, in
// which case the loaded rows may predate the reset and the load is repeated.
func (s *ledgerService) open(ctx context.Context, userID string) (*ledger.Session, error) {
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		if sess, ok := s.touch(userID); ok {
			return sess, nil
		}

		pending := &pendingLoad{}
		s.mu.Lock()
		s.loading[userID] = pending
		s.mu.Unlock()

		sess := ledger.NewSession(userID, s.repo, s.opts...)
		err := sess.Load(context.WithoutCancel(ctx))

		s.mu.Lock()
		delete(s.loading, userID)
		if err == nil && !pending.stale {
			s.sessions[userID] = &sessionEntry{sess: sess, lastUsed: time.Now()}
			s.mu.Unlock()
			s.LogInfo(ctx, "Ledger session opened", slog.String("user_id", userID))
			return sess, nil
		}
		s.mu.Unlock()

		sess.Close()
		if err != nil {
			return nil, err
		}
		s.LogDebug(ctx, "Ledger session reset while loading, reloading",
			slog.String("user_id", userID), slog.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("ledger session kept being reset while loading: %w", apperrors.ErrNoSession)
}

// --- Reads ---

func (s *ledgerService) ListCustomers(ctx context.Context, userID string, params dto.ListCustomersParams) ([]domain.CustomerSummary, error) {
	order, err := ledger.ParseSortOrder(params.Sort)
	if err != nil {
		return nil, err
	}
	var direction *domain.Direction
	if params.Direction != "" {
		d := domain.Direction(params.Direction)
		if !d.IsValid() {
			return nil, apperrors.Validationf("unknown direction %q", params.Direction)
		}
		direction = &d
	}

	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sess.Customers(order, direction), nil
}

func (s *ledgerService) GetCustomer(ctx context.Context, userID, customerName string) (*domain.CustomerSummary, *domain.CustomerTotals, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	summary, totals, err := sess.Customer(customerName)
	if err != nil {
		return nil, nil, err
	}
	return &summary, &totals, nil
}

func (s *ledgerService) GetTotals(ctx context.Context, userID string) (*domain.LedgerTotals, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	totals := sess.Totals()
	return &totals, nil
}

func (s *ledgerService) ListRecent(ctx context.Context, userID string, params dto.ListRecentParams) ([]domain.Transaction, *string, error) {
	var after *ledger.RecentCursor
	if params.NextToken != "" {
		date, createdAt, id, err := pagination.DecodeRecentToken(params.NextToken)
		if err != nil {
			return nil, nil, apperrors.Validationf("%s", err.Error())
		}
		after = &ledger.RecentCursor{Date: date, CreatedAt: createdAt, ID: id}
	}

	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	page, next := sess.Recent(params.Limit, after)
	if next == nil {
		return page, nil, nil
	}
	token := pagination.EncodeRecentToken(next.Date, next.CreatedAt, next.ID)
	return page, &token, nil
}

// --- Single-transaction writes ---

func (s *ledgerService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := sess.Create(ctx, ledger.CreateInput{
		CustomerName: req.CustomerName,
		Amount:       req.Amount.String(),
		Direction:    req.Direction,
		Notes:        req.Notes,
		Date:         req.Date,
	})
	if err != nil {
		return nil, err
	}
	s.LogDebug(ctx, "Transaction created", slog.String("transaction_id", txn.ID))
	return &txn, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, userID, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	in := ledger.UpdateInput{Notes: req.Notes, Direction: req.Direction}
	if req.Amount != nil {
		amount := req.Amount.String()
		in.Amount = &amount
	}
	txn, err := sess.Update(ctx, transactionID, in)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *ledgerService) ToggleTransactionPaid(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return nil, err
	}
	txn, err := sess.TogglePaid(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return err
	}
	return sess.Delete(ctx, transactionID)
}

// --- Bulk writes ---

func (s *ledgerService) DeleteCustomerTransactions(ctx context.Context, userID, customerName string) (int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sess.DeleteAllForCustomer(ctx, customerName)
}

func (s *ledgerService) ToggleCustomerPaid(ctx context.Context, userID, customerName string) (bool, int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return false, 0, err
	}
	return sess.ToggleAllPaidForCustomer(ctx, customerName)
}

func (s *ledgerService) SetCustomerPaid(ctx context.Context, userID, customerName string, paid bool) (int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sess.SetAllPaidForCustomer(ctx, customerName, paid)
}

func (s *ledgerService) DeleteCustomerPaidTransactions(ctx context.Context, userID, customerName string) (int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sess.DeleteAllPaidForCustomer(ctx, customerName)
}

func (s *ledgerService) ClearRecent(ctx context.Context, userID string, transactionIDs []string) (int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sess.ClearRecent(ctx, transactionIDs)
}

func (s *ledgerService) DeleteAllTransactions(ctx context.Context, userID string) (int, error) {
	sess, err := s.session(ctx, userID)
	if err != nil {
		return 0, err
	}
	return sess.DeleteAll(ctx)
}

// --- Session lifecycle ---

func (s *ledgerService) ReloadSession(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.ErrNoSession
	}
	sess, ok := s.touch(userID)
	if !ok {
		_, err := s.session(ctx, userID)
		return err
	}
	if err := sess.Load(ctx); err != nil {
		s.LogError(ctx, err, "Failed to reload ledger session", slog.String("user_id", userID))
		return err
	}
	return nil
}

func (s *ledgerService) ResetSession(ctx context.Context, userID string) {
	s.mu.Lock()
	entry, ok := s.sessions[userID]
	delete(s.sessions, userID)
	if pending, loading := s.loading[userID]; loading {
		pending.stale = true
	}
	s.mu.Unlock()
	if ok {
		entry.sess.Close()
		s.LogInfo(ctx, "Ledger session reset", slog.String("user_id", userID))
	}
}

// EvictIdle closes every session unused for at least idleFor. The next
// request of an evicted user loads the ledger again.
func (s *ledgerService) EvictIdle(ctx context.Context, idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)

	s.mu.Lock()
	var idle []*ledger.Session
	for userID, entry := range s.sessions {
		if !entry.lastUsed.After(cutoff) {
			idle = append(idle, entry.sess)
			delete(s.sessions, userID)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.Close()
	}
	if len(idle) > 0 {
		s.LogInfo(ctx, "Idle ledger sessions evicted", slog.Int("sessions", len(idle)))
	}
	return len(idle)
}

func (s *ledgerService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for _, entry := range sessions {
		entry.sess.Close()
	}
	s.detached.Close()
}

// RunSessionEviction evicts sessions idle for idleFor until ctx ends,
// checking every half idle period. A non-positive idleFor disables eviction.
func RunSessionEviction(ctx context.Context, svc portssvc.LedgerSessionSvc, idleFor time.Duration) {
	if idleFor <= 0 {
		return
	}
	every := idleFor / 2
	if every <= 0 {
		every = idleFor
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.EvictIdle(ctx, idleFor)
		}
	}
}
