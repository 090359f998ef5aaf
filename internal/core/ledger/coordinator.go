package ledger

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// CreateInput is the user-supplied part of a new transaction.
type CreateInput struct {
	CustomerName string           `validate:"required"`
	Amount       string           `validate:"required"`
	Direction    domain.Direction `validate:"required,oneof=lend borrow"`
	Notes        string           `validate:"max=500"`
	// Date defaults to the current time when nil.
	Date *time.Time
}

// UpdateInput carries the optional fields of an update. Nil means unchanged.
type UpdateInput struct {
	Amount    *string
	Notes     *string
	Direction *domain.Direction
}

// Coordinator applies single-transaction mutations with optimistic local
// state and rollback on backend failure.
type Coordinator struct {
	userID string
	store  *Store
	repo   portsrepo.TransactionRepositoryFacade
	op     *operator
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// Create validates input, prepends the new transaction and persists it.
func (c *Coordinator) Create(ctx context.Context, in CreateInput) (domain.Transaction, error) {
	if err := validate.Struct(in); err != nil {
		return domain.Transaction{}, apperrors.Validationf("%s", err.Error())
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return domain.Transaction{}, apperrors.Validationf("customer name is required")
	}
	magnitude, err := parseAmount(in.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !magnitude.IsPositive() {
		return domain.Transaction{}, apperrors.Validationf("amount must be greater than zero")
	}

	now := c.now().UTC()
	date := now
	if in.Date != nil {
		date = in.Date.UTC()
	}
	txn := domain.Transaction{
		ID:           c.newID(),
		UserID:       c.userID,
		CustomerName: in.CustomerName,
		Amount:       domain.SignAmount(magnitude, in.Direction),
		Date:         date,
		Notes:        in.Notes,
		CreatedAt:    now,
	}

	err = c.execute(ctx, mutation{
		name: "create",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			return slices.Insert(txs, 0, txn), nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.SaveTransaction(ctx, txn)
		},
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return txn, nil
}

// TogglePaid flips the paid flag of one transaction.
func (c *Coordinator) TogglePaid(ctx context.Context, id string) (domain.Transaction, error) {
	var updated domain.Transaction
	err := c.execute(ctx, mutation{
		name: "toggle_paid",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			i := indexOf(txs, id)
			if i < 0 {
				return nil, transactionNotFound(id)
			}
			txs[i].IsPaid = !txs[i].IsPaid
			updated = txs[i]
			return txs, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.SetTransactionPaid(ctx, c.userID, id, updated.IsPaid)
		},
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return updated, nil
}

// Update changes amount and/or notes of one transaction.
//
// With a direction the amount (given or existing) is re-signed to match it.
// Without a direction a given amount is written as is.
func (c *Coordinator) Update(ctx context.Context, id string, in UpdateInput) (domain.Transaction, error) {
	if in.Amount == nil && in.Notes == nil && in.Direction == nil {
		return domain.Transaction{}, apperrors.Validationf("nothing to update")
	}
	if in.Direction != nil && !in.Direction.IsValid() {
		return domain.Transaction{}, apperrors.Validationf("unknown direction %q", *in.Direction)
	}
	var amount *decimal.Decimal
	if in.Amount != nil {
		parsed, err := parseAmount(*in.Amount)
		if err != nil {
			return domain.Transaction{}, err
		}
		if parsed.IsZero() {
			return domain.Transaction{}, apperrors.Validationf("amount must not be zero")
		}
		amount = &parsed
	}

	var updated domain.Transaction
	err := c.execute(ctx, mutation{
		name: "update",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			i := indexOf(txs, id)
			if i < 0 {
				return nil, transactionNotFound(id)
			}
			if amount != nil {
				txs[i].Amount = *amount
			}
			if in.Direction != nil {
				txs[i].Amount = domain.SignAmount(txs[i].Amount, *in.Direction)
			}
			if in.Notes != nil {
				txs[i].Notes = *in.Notes
			}
			updated = txs[i]
			return txs, nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.UpdateTransaction(ctx, updated)
		},
	})
	if err != nil {
		return domain.Transaction{}, err
	}
	return updated, nil
}

// Delete removes one transaction.
func (c *Coordinator) Delete(ctx context.Context, id string) error {
	return c.execute(ctx, mutation{
		name: "delete",
		apply: func(txs []domain.Transaction) ([]domain.Transaction, error) {
			i := indexOf(txs, id)
			if i < 0 {
				return nil, transactionNotFound(id)
			}
			return slices.Delete(txs, i, i+1), nil
		},
		persist: func(ctx context.Context) error {
			return c.repo.DeleteTransaction(ctx, c.userID, id)
		},
	})
}

// Amounts are stored as NUMERIC(18,2).
const (
	amountScale      = 2
	maxIntegerDigits = 16
)

var amountLimit = decimal.New(1, maxIntegerDigits)

// parseAmount accepts only values the backend stores exactly, so the local
// store never drifts from a reload.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, apperrors.Validationf("amount %q is not a number", raw)
	}
	if !amount.Equal(amount.Truncate(amountScale)) {
		return decimal.Decimal{}, apperrors.Validationf("amount %q has more than %d decimal places", raw, amountScale)
	}
	if amount.Abs().GreaterThanOrEqual(amountLimit) {
		return decimal.Decimal{}, apperrors.Validationf("amount %q is too large", raw)
	}
	return amount.Truncate(amountScale), nil
}

func transactionNotFound(id string) error {
	return apperrors.NewAppError(http.StatusNotFound, "transaction "+id+" not found", apperrors.ErrNotFound)
}
