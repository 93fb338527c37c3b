package database

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places kept for money and rates.
// Amount columns hold INTEGER counts of 10^-AmountScale so that sums and
// comparisons in SQL stay exact.
const AmountScale = 4

// Amount converts money to its stored INTEGER form, rounding half away from
// zero past AmountScale places.
func Amount(d decimal.Decimal) any {
	return d.Shift(AmountScale).Round(0).IntPart()
}

// ScanAmount reads an amount column, or an aggregate of one, into target.
// NULL reads as zero.
func ScanAmount(target *decimal.Decimal) sql.Scanner {
	return amountScanner{target: target}
}

type amountScanner struct {
	target *decimal.Decimal
}

func (s amountScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s.target = decimal.Zero
	case int64:
		*s.target = decimal.New(v, -AmountScale)
	default:
		return fmt.Errorf("amount column holds %T, want INTEGER", src)
	}
	return nil
}
