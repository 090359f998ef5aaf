package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
)

// errNoChange is returned by an apply step that found nothing to change.
// The mutation then succeeds without touching the backend.
var errNoChange = errors.New("no change")

// mutation describes one optimistic change: apply edits a working copy of the
// store, persist writes the same change to the backend.
type mutation struct {
	name    string
	apply   func(txs []domain.Transaction) ([]domain.Transaction, error)
	persist func(ctx context.Context) error
	// keepOnFailure leaves the applied state in place if persist fails.
	keepOnFailure bool
}

// execute runs m on the session's writer goroutine.
//
// The store is snapshotted, the change is applied locally, then persisted.
// When persist fails the snapshot is restored exactly (unless keepOnFailure)
// and an error wrapping apperrors.ErrPersistence is returned. Errors from
// apply leave the store untouched and never reach the backend.
func (c *Coordinator) execute(ctx context.Context, m mutation) error {
	if c.userID == "" {
		return apperrors.ErrNoSession
	}

	return c.op.process(ctx, func(ctx context.Context) error {
		snapshot := c.store.Snapshot()

		next, err := m.apply(cloneTransactions(snapshot))
		if errors.Is(err, errNoChange) {
			return nil
		}
		if err != nil {
			return err
		}
		c.store.replace(next)

		if m.persist == nil {
			return nil
		}

		start := time.Now()
		if err := m.persist(ctx); err != nil {
			if !m.keepOnFailure {
				c.store.replace(snapshot)
			}
			c.logger.ErrorContext(ctx, "Ledger mutation failed to persist",
				slog.String("mutation", m.name),
				slog.Bool("rolled_back", !m.keepOnFailure),
				slog.String("error", err.Error()))
			return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistence, m.name, err)
		}

		c.logger.DebugContext(ctx, "Ledger mutation persisted",
			slog.String("mutation", m.name),
			slog.Duration("duration", time.Since(start)))
		return nil
	})
}
