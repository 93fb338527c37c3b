package stats

import (
	"time"

	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/gestfin/gestfin/pkg/expense"
	"github.com/shopspring/decimal"
)

// MonthlySummary is the money picture of a family for one calendar month.
// Only valid income and expenses are counted.
type MonthlySummary struct {
	FamilyId   int                     `json:"familyId"`
	Month      int                     `json:"month"`
	Year       int                     `json:"year"`
	StartDate  time.Time               `json:"startDate"`
	EndDate    time.Time               `json:"endDate"`
	Income     decimal.Decimal         `json:"income"`
	Expenses   decimal.Decimal         `json:"expenses"`
	Net        decimal.Decimal         `json:"net"`
	Categories []expense.CategoryTotal `json:"categories"`
	Budgets    []budget.Usage          `json:"budgets"`

	TotalBudgeted decimal.Decimal `json:"totalBudgeted"`
	// TotalRemaining is negative when budgets are overspent overall.
	TotalRemaining decimal.Decimal `json:"totalRemaining"`
	ExceededCount  int             `json:"exceededCount"`
}

// SavingsRate is the share of income left after expenses, in percent
// rounded to 2 places. It is zero without income.
func (s MonthlySummary) SavingsRate() decimal.Decimal {
	if !s.Income.IsPositive() {
		return decimal.Zero
	}
	return s.Net.Div(s.Income).Mul(decimal.NewFromInt(100)).Round(2)
}
