package pgsql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	"github.com/SscSPs/baki_khata/internal/models"
	"github.com/SscSPs/baki_khata/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxTransactionRepository stores ledger rows in the ledger_transactions table.
// Customer-scoped statements match on customer_key, which is written from
// domain.NormalizeCustomerName so the SQL and in-memory grouping always agree.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func (r *PgxTransactionRepository) FindTransactionsByOwner(ctx context.Context, userID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, user_id, customer_name, customer_key, amount, is_paid,
		       transaction_date, notes, created_at, is_hidden_from_recent
		FROM ledger_transactions
		WHERE user_id = $1
		ORDER BY transaction_date DESC, created_at DESC, transaction_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger transactions: %w", err)
	}
	defer rows.Close()

	modelTxns := []models.LedgerTransaction{}
	for rows.Next() {
		var m models.LedgerTransaction
		if err := rows.Scan(
			&m.TransactionID,
			&m.UserID,
			&m.CustomerName,
			&m.CustomerKey,
			&m.Amount,
			&m.IsPaid,
			&m.TransactionDate,
			&m.Notes,
			&m.CreatedAt,
			&m.IsHiddenFromRecent,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction row: %w", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating ledger transaction rows: %w", rows.Err())
	}

	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO ledger_transactions (transaction_id, user_id, customer_name, customer_key, amount, is_paid,
		                                 transaction_date, notes, created_at, is_hidden_from_recent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.CustomerName,
		m.CustomerKey,
		m.Amount,
		m.IsPaid,
		m.TransactionDate,
		m.Notes,
		m.CreatedAt,
		m.IsHiddenFromRecent,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction %s already exists: %w", m.TransactionID, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save ledger transaction: %w", err)
	}
	return nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE ledger_transactions
		SET amount = $1, notes = $2
		WHERE transaction_id = $3 AND user_id = $4;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.Amount, m.Notes, m.TransactionID, m.UserID)
	if err != nil {
		return fmt.Errorf("failed to update ledger transaction: %w", err)
	}
	return expectRow(cmdTag.RowsAffected(), m.TransactionID)
}

func (r *PgxTransactionRepository) SetTransactionPaid(ctx context.Context, userID, transactionID string, paid bool) error {
	query := `UPDATE ledger_transactions SET is_paid = $1 WHERE transaction_id = $2 AND user_id = $3;`
	cmdTag, err := r.Pool.Exec(ctx, query, paid, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to set paid flag: %w", err)
	}
	return expectRow(cmdTag.RowsAffected(), transactionID)
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	query := `DELETE FROM ledger_transactions WHERE transaction_id = $1 AND user_id = $2;`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger transaction: %w", err)
	}
	return expectRow(cmdTag.RowsAffected(), transactionID)
}

func (r *PgxTransactionRepository) DeleteTransactionsByCustomer(ctx context.Context, userID, customerKey string) error {
	query := `DELETE FROM ledger_transactions WHERE user_id = $1 AND customer_key = $2;`
	if _, err := r.Pool.Exec(ctx, query, userID, customerKey); err != nil {
		return fmt.Errorf("failed to delete customer transactions: %w", err)
	}
	return nil
}

func (r *PgxTransactionRepository) SetPaidByCustomer(ctx context.Context, userID, customerKey string, paid bool) error {
	query := `UPDATE ledger_transactions SET is_paid = $1 WHERE user_id = $2 AND customer_key = $3;`
	if _, err := r.Pool.Exec(ctx, query, paid, userID, customerKey); err != nil {
		return fmt.Errorf("failed to set customer paid flag: %w", err)
	}
	return nil
}

func (r *PgxTransactionRepository) DeletePaidByCustomer(ctx context.Context, userID, customerKey string) error {
	query := `DELETE FROM ledger_transactions WHERE user_id = $1 AND customer_key = $2 AND is_paid;`
	if _, err := r.Pool.Exec(ctx, query, userID, customerKey); err != nil {
		return fmt.Errorf("failed to delete paid customer transactions: %w", err)
	}
	return nil
}

// HideFromRecent flags the ids inside one database transaction and rolls back
// unless every id matched a row of the user.
func (r *PgxTransactionRepository) HideFromRecent(ctx context.Context, userID string, transactionIDs []string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE ledger_transactions
			SET is_hidden_from_recent = TRUE
			WHERE user_id = $1 AND transaction_id = ANY($2);
		`
		cmdTag, err := tx.Exec(ctx, query, userID, transactionIDs)
		if err != nil {
			return fmt.Errorf("failed to hide transactions from recent: %w", err)
		}
		if int(cmdTag.RowsAffected()) != len(transactionIDs) {
			return apperrors.NewAppError(http.StatusNotFound,
				fmt.Sprintf("hid %d of %d transactions", cmdTag.RowsAffected(), len(transactionIDs)),
				apperrors.ErrNotFound)
		}
		return nil
	})
}

func (r *PgxTransactionRepository) DeleteAllByOwner(ctx context.Context, userID string) error {
	if _, err := r.Pool.Exec(ctx, `DELETE FROM ledger_transactions WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to delete ledger: %w", err)
	}
	return nil
}

func expectRow(affected int64, transactionID string) error {
	if affected == 0 {
		return fmt.Errorf("transaction %s not found: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}
