package ledger

import (
	"context"
	"net/http"
	"slices"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
)

// Bulk operations address rows by normalized customer name or by an id set.
// They share the single-row rollback contract, but the backend writes rows
// independently, so a failed bulk call may have changed some remote rows
// while the local store is fully restored.

// DeleteAllForCustomer removes every transaction of the named customer.
func (c *Coordinator) DeleteAllForCustomer(ctx context.Context, name string) (int, error) {
	key, err := customerKey(name)
	if err != nil {
		return 0, err
	}
	var removed int
	err = c.execute(ctx, mutation{
		name: "delete_customer",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			kept := slices.DeleteFunc(txs, func(t domain.Transaction) bool { return t.CustomerKey() == key })
			removed = len(txs) - len(kept)
			if removed == 0 {
				return nil, customerNotFound(name)
			}
			return kept, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.DeleteTransactionsByCustomer(ctx, c.userID, key)
		},
	})
	return removed, err
}

// ToggleAllPaidForCustomer marks every row of the customer paid unless they
// all already are, in which case every row is marked unpaid. The decision is
// taken from the state current when the mutation runs.
func (c *Coordinator) ToggleAllPaidForCustomer(ctx context.Context, name string) (bool, int, error) {
	return c.setAllPaid(ctx, name, nil)
}

// SetAllPaidForCustomer forces the paid flag of every row of the customer.
func (c *Coordinator) SetAllPaidForCustomer(ctx context.Context, name string, paid bool) (int, error) {
	_, n, err := c.setAllPaid(ctx, name, &paid)
	return n, err
}

func (c *Coordinator) setAllPaid(ctx context.Context, name string, force *bool) (bool, int, error) {
	key, err := customerKey(name)
	if err != nil {
		return false, 0, err
	}
	var (
		shouldBePaid bool
		matched      int
	)
	err = c.execute(ctx, mutation{
		name: "set_customer_paid",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			allPaid := true
			for _, t := range txs {
				if t.CustomerKey() == key {
					matched++
					allPaid = allPaid && t.IsPaid
				}
			}
			if matched == 0 {
				return nil, customerNotFound(name)
			}
			shouldBePaid = !allPaid
			if force != nil {
				shouldBePaid = *force
			}
			for i := range txs {
				if txs[i].CustomerKey() == key {
					txs[i].IsPaid = shouldBePaid
				}
			}
			return txs, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.SetPaidByCustomer(ctx, c.userID, key, shouldBePaid)
		},
	})
	if err != nil {
		return false, 0, err
	}
	return shouldBePaid, matched, nil
}

// DeleteAllPaidForCustomer removes the customer's paid rows and keeps the unpaid ones.
// A customer without paid rows is a no-op that never reaches the backend.
func (c *Coordinator) DeleteAllPaidForCustomer(ctx context.Context, name string) (int, error) {
	key, err := customerKey(name)
	if err != nil {
		return 0, err
	}
	var removed int
	err = c.execute(ctx, mutation{
		name: "delete_customer_paid",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			found := slices.ContainsFunc(txs, func(t domain.Transaction) bool { return t.CustomerKey() == key })
			if !found {
				return nil, customerNotFound(name)
			}
			kept := slices.DeleteFunc(txs, func(t domain.Transaction) bool {
				return t.CustomerKey() == key && t.IsPaid
			})
			removed = len(txs) - len(kept)
			if removed == 0 {
				return nil, errNoChange
			}
			return kept, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.DeletePaidByCustomer(ctx, c.userID, key)
		},
	})
	return removed, err
}

// ClearRecent hides the given transactions from recent activity. Unknown ids
// are ignored and only matched ids are sent to the backend. Amounts and paid
// flags are never touched.
func (c *Coordinator) ClearRecent(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperrors.Validationf("at least one transaction id is required")
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var matched []string
	err := c.execute(ctx, mutation{
		name: "clear_recent",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			for i := range txs {
				if _, ok := wanted[txs[i].ID]; ok {
					txs[i].IsHiddenFromRecent = true
					matched = append(matched, txs[i].ID)
				}
			}
			if len(matched) == 0 {
				return nil, apperrors.NewAppError(http.StatusNotFound, "none of the transactions exist", apperrors.ErrNotFound)
			}
			return txs, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.HideFromRecent(ctx, c.userID, matched)
		},
	})
	return len(matched), err
}

// DeleteAll wipes the session's ledger. It is part of account teardown, so the
// local store stays empty even when the backend fails; the error is still returned.
func (c *Coordinator) DeleteAll(ctx context.Context) (int, error) {
	var removed int
	err := c.execute(ctx, mutation{
		name: "delete_all",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			removed = len(txs)
			return []domain.Transaction{}, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.DeleteAllByOwner(ctx, c.userID)
		},
		keepOnFailure: true,
	})
	return removed, err
}

func customerKey(name string) (string, error) {
	key := domain.NormalizeCustomerName(name)
	if key == "" {
		return "", apperrors.Validationf("customer name is required")
	}
	return key, nil
}

func customerNotFound(name string) error {
	return apperrors.NewAppError(http.StatusNotFound, "customer "+name+" not found", apperrors.ErrNotFound)
}
