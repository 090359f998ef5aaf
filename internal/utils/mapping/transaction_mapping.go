package mapping

import (
	"database/sql"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/models"
)

// ToModelTransaction converts a domain Transaction to its table row, filling in the customer key.
func ToModelTransaction(d domain.Transaction) models.LedgerTransaction {
	return models.LedgerTransaction{
		TransactionID:      d.ID,
		UserID:             d.UserID,
		CustomerName:       d.CustomerName,
		CustomerKey:        d.CustomerKey(),
		Amount:             d.Amount,
		IsPaid:             d.IsPaid,
		TransactionDate:    d.Date,
		Notes:              sql.NullString{String: d.Notes, Valid: d.Notes != ""},
		CreatedAt:          d.CreatedAt,
		IsHiddenFromRecent: d.IsHiddenFromRecent,
	}
}

// ToDomainTransaction converts a table row to a domain Transaction.
func ToDomainTransaction(m models.LedgerTransaction) domain.Transaction {
	return domain.Transaction{
		ID:                 m.TransactionID,
		UserID:             m.UserID,
		CustomerName:       m.CustomerName,
		Amount:             m.Amount,
		IsPaid:             m.IsPaid,
		Date:               m.TransactionDate,
		Notes:              m.Notes.String,
		CreatedAt:          m.CreatedAt,
		IsHiddenFromRecent: m.IsHiddenFromRecent,
	}
}

// ToDomainTransactionSlice converts a slice of rows.
func ToDomainTransactionSlice(ms []models.LedgerTransaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
