package ledger

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SortOrder selects how customer summaries are presented.
type SortOrder string

const (
	SortByRecent  SortOrder = "recent"
	SortByName    SortOrder = "name"
	SortByBalance SortOrder = "balance"
)

// ParseSortOrder maps a query value to a SortOrder. Empty means SortByRecent.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByRecent:
		return SortByRecent, nil
	case SortByName:
		return SortByName, nil
	case SortByBalance:
		return SortByBalance, nil
	default:
		return "", apperrors.Validationf("unknown sort order %q", s)
	}
}

// Aggregate groups a flat transaction list into per-customer summaries.
//
// Groups are keyed by the normalized customer name and display the casing of
// the earliest created transaction, the first one encountered on equal
// CreatedAt. Rows within a group are ordered by date descending, keeping
// input order for equal dates. Groups are ordered by their most recent date
// descending, keeping first-seen order for equal dates.
func Aggregate(txs []domain.Transaction) []domain.CustomerSummary {
	index := make(map[string]int)
	var (
		summaries []domain.CustomerSummary
		firstAt   []time.Time
	)

	for _, t := range txs {
		key := t.CustomerKey()
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, domain.CustomerSummary{Name: t.CustomerName})
			firstAt = append(firstAt, t.CreatedAt)
		} else if t.CreatedAt.Before(firstAt[i]) {
			summaries[i].Name = t.CustomerName
			firstAt[i] = t.CreatedAt
		}
		summaries[i].Transactions = append(summaries[i].Transactions, t)
	}

	for i := range summaries {
		slices.SortStableFunc(summaries[i].Transactions, byDateDesc)
		summaries[i].LastTransaction = summaries[i].Transactions[0].Date
	}

	slices.SortStableFunc(summaries, func(a, b domain.CustomerSummary) int {
		return b.LastTransaction.Compare(a.LastTransaction)
	})
	return summaries
}

// SortSummaries returns a re-sorted copy of summaries. It never regroups.
func SortSummaries(summaries []domain.CustomerSummary, order SortOrder) []domain.CustomerSummary {
	out := slices.Clone(summaries)
	switch order {
	case SortByName:
		slices.SortStableFunc(out, func(a, b domain.CustomerSummary) int {
			return strings.Compare(domain.NormalizeCustomerName(a.Name), domain.NormalizeCustomerName(b.Name))
		})
	case SortByBalance:
		slices.SortStableFunc(out, func(a, b domain.CustomerSummary) int {
			return ComputeTotals(b).TotalBaki.Abs().Cmp(ComputeTotals(a).TotalBaki.Abs())
		})
	default:
		slices.SortStableFunc(out, func(a, b domain.CustomerSummary) int {
			return b.LastTransaction.Compare(a.LastTransaction)
		})
	}
	return out
}

// ComputeTotals sums a summary's signed amounts split by paid state.
// Mixed lend/borrow rows net out; no direction filtering happens here.
func ComputeTotals(summary domain.CustomerSummary) domain.CustomerTotals {
	totals := domain.CustomerTotals{TotalBaki: decimal.Zero, TotalPaid: decimal.Zero}
	for _, t := range summary.Transactions {
		if t.IsPaid {
			totals.TotalPaid = totals.TotalPaid.Add(t.Amount)
			totals.PaidCount++
			continue
		}
		totals.TotalBaki = totals.TotalBaki.Add(t.Amount)
		totals.UnpaidCount++
	}
	return totals
}

// FilterByDirection keeps receivables (Lend) or payables (Borrow).
// Use it before Aggregate for direction-only views.
func FilterByDirection(txs []domain.Transaction, d domain.Direction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if (d == domain.Lend && t.Amount.IsPositive()) || (d == domain.Borrow && t.Amount.IsNegative()) {
			out = append(out, t)
		}
	}
	return out
}

// FindCustomer aggregates only the rows matching name.
func FindCustomer(txs []domain.Transaction, name string) (domain.CustomerSummary, bool) {
	key := domain.NormalizeCustomerName(name)
	var matched []domain.Transaction
	for _, t := range txs {
		if t.CustomerKey() == key {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return domain.CustomerSummary{}, false
	}
	return Aggregate(matched)[0], true
}

// ComputeLedgerTotals sums outstanding (unpaid) amounts over the whole ledger.
func ComputeLedgerTotals(txs []domain.Transaction) domain.LedgerTotals {
	totals := domain.LedgerTotals{Receivable: decimal.Zero, Payable: decimal.Zero}
	customers := make(map[string]struct{})
	for _, t := range txs {
		customers[t.CustomerKey()] = struct{}{}
		if t.IsPaid {
			continue
		}
		totals.UnpaidCount++
		if t.Amount.IsPositive() {
			totals.Receivable = totals.Receivable.Add(t.Amount)
		} else {
			totals.Payable = totals.Payable.Add(t.Amount.Abs())
		}
	}
	totals.Net = totals.Receivable.Sub(totals.Payable)
	totals.CustomerCount = len(customers)
	return totals
}

// RecentCursor marks the last row of a recent-activity page.
type RecentCursor struct {
	Date      time.Time
	CreatedAt time.Time
	ID        string
}

// RecentActivity lists rows not hidden from recent, newest first, starting
// after the cursor. A nil next cursor means there are no more rows.
func RecentActivity(txs []domain.Transaction, limit int, after *RecentCursor) ([]domain.Transaction, *RecentCursor) {
	visible := make([]domain.Transaction, 0, len(txs))
	for _, t := range txs {
		if !t.IsHiddenFromRecent {
			visible = append(visible, t)
		}
	}
	slices.SortStableFunc(visible, recentOrder)

	start := 0
	if after != nil {
		start = len(visible)
		for i, t := range visible {
			if recentOrder(t, cursorRow(*after)) > 0 {
				start = i
				break
			}
		}
	}
	visible = visible[start:]

	if limit <= 0 || len(visible) <= limit {
		return visible, nil
	}
	page := visible[:limit]
	last := page[len(page)-1]
	return page, &RecentCursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.ID}
}

func cursorRow(c RecentCursor) domain.Transaction {
	return domain.Transaction{Date: c.Date, CreatedAt: c.CreatedAt, ID: c.ID}
}

func byDateDesc(a, b domain.Transaction) int {
	return b.Date.Compare(a.Date)
}

func recentOrder(a, b domain.Transaction) int {
	if c := b.Date.Compare(a.Date); c != 0 {
		return c
	}
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}
