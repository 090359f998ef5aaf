package dto

import (
	"time"

	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/SscSPs/baki_khata/internal/core/ledger"
	"github.com/shopspring/decimal"
)

// ListCustomersParams defines query parameters for listing customers.
type ListCustomersParams struct {
	Sort      string `form:"sort" binding:"omitempty,oneof=recent name balance"`
	Direction string `form:"direction" binding:"omitempty,oneof=lend borrow"`
}

// CustomerSummaryResponse is one counterparty with its balances.
type CustomerSummaryResponse struct {
	Name            string                `json:"name"`
	LastTransaction time.Time             `json:"lastTransaction"`
	TotalBaki       decimal.Decimal       `json:"totalBaki" swaggertype:"string"`
	TotalPaid       decimal.Decimal       `json:"totalPaid" swaggertype:"string"`
	UnpaidCount     int                   `json:"unpaidCount"`
	PaidCount       int                   `json:"paidCount"`
	Transactions    []TransactionResponse `json:"transactions,omitempty"`
}

// ListCustomersResponse wraps the list of customers.
type ListCustomersResponse struct {
	Customers []CustomerSummaryResponse `json:"customers"`
}

// ToCustomerSummaryResponse converts a summary and its totals. Transactions are
// included only when withTransactions is set.
func ToCustomerSummaryResponse(summary *domain.CustomerSummary, totals domain.CustomerTotals, withTransactions bool) CustomerSummaryResponse {
	resp := CustomerSummaryResponse{
		Name:            summary.Name,
		LastTransaction: summary.LastTransaction,
		TotalBaki:       totals.TotalBaki,
		TotalPaid:       totals.TotalPaid,
		UnpaidCount:     totals.UnpaidCount,
		PaidCount:       totals.PaidCount,
	}
	if withTransactions {
		resp.Transactions = ToTransactionResponses(summary.Transactions)
	}
	return resp
}

// ToListCustomersResponse converts summaries, computing each customer's totals.
func ToListCustomersResponse(summaries []domain.CustomerSummary) ListCustomersResponse {
	customers := make([]CustomerSummaryResponse, len(summaries))
	for i := range summaries {
		customers[i] = ToCustomerSummaryResponse(&summaries[i], ledger.ComputeTotals(summaries[i]), false)
	}
	return ListCustomersResponse{Customers: customers}
}

// SetCustomerPaidRequest forces the paid flag on all of a customer's rows.
type SetCustomerPaidRequest struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

// BulkResult reports how many rows a bulk operation touched.
type BulkResult struct {
	Affected int   `json:"affected"`
	IsPaid   *bool `json:"isPaid,omitempty"`
}

// LedgerTotalsResponse holds ledger-wide outstanding balances.
type LedgerTotalsResponse struct {
	Receivable    decimal.Decimal `json:"receivable" swaggertype:"string"`
	Payable       decimal.Decimal `json:"payable" swaggertype:"string"`
	Net           decimal.Decimal `json:"net" swaggertype:"string"`
	CustomerCount int             `json:"customerCount"`
	UnpaidCount   int             `json:"unpaidCount"`
	Display       TotalsDisplay   `json:"display"`
}

// TotalsDisplay carries the totals formatted in DisplayCurrency.
type TotalsDisplay struct {
	Receivable string `json:"receivable"`
	Payable    string `json:"payable"`
	Net        string `json:"net"`
}

// ToLedgerTotalsResponse converts domain.LedgerTotals.
func ToLedgerTotalsResponse(t *domain.LedgerTotals) LedgerTotalsResponse {
	return LedgerTotalsResponse{
		Receivable:    t.Receivable,
		Payable:       t.Payable,
		Net:           t.Net,
		CustomerCount: t.CustomerCount,
		UnpaidCount:   t.UnpaidCount,
		Display: TotalsDisplay{
			Receivable: FormatAmount(t.Receivable),
			Payable:    FormatAmount(t.Payable),
			Net:        FormatAmount(t.Net),
		},
	}
}
