package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Direction says which way money moves for a ledger entry.
type Direction string

const (
	// Lend means the session owner is owed money (receivable, positive amount).
	Lend Direction = "lend"
	// Borrow means the session owner owes money (payable, negative amount).
	Borrow Direction = "borrow"
)

// IsValid reports whether d is one of the known directions.
func (d Direction) IsValid() bool {
	return d == Lend || d == Borrow
}

// Transaction is a single signed entry in a user's ledger.
// Positive amounts are receivables, negative amounts are payables.
type Transaction struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userID"`
	CustomerName       string          `json:"customerName"`
	Amount             decimal.Decimal `json:"amount"` // never zero; sign encodes direction
	IsPaid             bool            `json:"isPaid"`
	Date               time.Time       `json:"date"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	IsHiddenFromRecent bool            `json:"isHiddenFromRecent"`
}

// Direction derives the direction from the amount's sign.
func (t Transaction) Direction() Direction {
	if t.Amount.IsNegative() {
		return Borrow
	}
	return Lend
}

// CustomerKey returns the grouping key for the transaction's customer.
func (t Transaction) CustomerKey() string {
	return NormalizeCustomerName(t.CustomerName)
}

// NormalizeCustomerName is the grouping key used by every name-matched operation.
func NormalizeCustomerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SignAmount applies the direction's sign to a magnitude.
func SignAmount(magnitude decimal.Decimal, d Direction) decimal.Decimal {
	abs := magnitude.Abs()
	if d == Borrow {
		return abs.Neg()
	}
	return abs
}

// CustomerSummary is the derived per-counterparty view. It is never persisted.
type CustomerSummary struct {
	Name            string        `json:"name"`
	Transactions    []Transaction `json:"transactions"`
	LastTransaction time.Time     `json:"lastTransaction"`
}

// CustomerTotals holds the signed sums for one summary.
type CustomerTotals struct {
	TotalBaki   decimal.Decimal `json:"totalBaki"`
	TotalPaid   decimal.Decimal `json:"totalPaid"`
	UnpaidCount int             `json:"unpaidCount"`
	PaidCount   int             `json:"paidCount"`
}

// LedgerTotals holds ledger-wide outstanding amounts.
type LedgerTotals struct {
	Receivable    decimal.Decimal `json:"receivable"`
	Payable       decimal.Decimal `json:"payable"`
	Net           decimal.Decimal `json:"net"`
	CustomerCount int             `json:"customerCount"`
	UnpaidCount   int             `json:"unpaidCount"`
}
