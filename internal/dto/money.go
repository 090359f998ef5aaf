package dto

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayCurrency is the ISO code used for human readable amounts.
const DisplayCurrency = "BDT"

// FormatAmount renders amount in the display currency, e.g. "৳1,250.50".
// Amounts are rounded to the currency's minor unit.
func FormatAmount(amount decimal.Decimal) string {
	cur := money.GetCurrency(DisplayCurrency)
	if cur == nil {
		return amount.StringFixed(2)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), cur.Code).Display()
}
