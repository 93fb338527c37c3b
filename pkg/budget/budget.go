package budget

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

// Budget caps the spending of a family for one month, optionally narrowed to
// a category and to one member.
type Budget struct {
	Id         int             `json:"id"`
	FamilyId   int             `json:"familyId"`
	CategoryId *int            `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Type       *string         `json:"type"`
	UserId     *int            `json:"userId"`
	CreatedAt  time.Time       `json:"createdAt"`

	// Display names resolved on read.
	FamilyName   string  `json:"familyName,omitempty"`
	CategoryName *string `json:"categoryName,omitempty"`
	UserName     *string `json:"userName,omitempty"`
}

// Period returns the first day of the budget month and the first day of the
// following month.
func (b Budget) Period() (time.Time, time.Time) {
	from := time.Date(b.Year, time.Month(b.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (b Budget) Covers(date time.Time) bool {
	from, to := b.Period()
	day := database.Day(date)
	return !day.Before(from) && day.Before(to)
}

type Patch struct {
	CategoryId patch.Field[int]             `json:"categoryId"`
	Amount     patch.Field[decimal.Decimal] `json:"amount"`
	Month      patch.Field[int]             `json:"month"`
	Year       patch.Field[int]             `json:"year"`
	Type       patch.Field[string]          `json:"type"`
	UserId     patch.Field[int]             `json:"userId"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "category_id", p.CategoryId)
	list = patch.AppendWith(list, "amount", p.Amount, database.Amount)
	list = patch.Append(list, "month", p.Month)
	list = patch.Append(list, "year", p.Year)
	list = patch.Append(list, "type", p.Type)
	list = patch.Append(list, "user_id", p.UserId)
	return list
}

// touchesPeriodKey reports whether the patch changes a column of the
// one-budget-per-period key.
func (p Patch) touchesPeriodKey() bool {
	return p.CategoryId.IsSet() || p.Month.IsSet() || p.Year.IsSet() || p.UserId.IsSet()
}

type Filter struct {
	Month      *int
	Year       *int
	CategoryId *int
	UserId     *int
}

// Usage compares a budget with the valid expenses recorded in its period.
type Usage struct {
	Budget      Budget          `json:"budget"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	PercentUsed decimal.Decimal `json:"percentUsed"`
	Exceeded    bool            `json:"exceeded"`
}

func NewUsage(budget Budget, spent decimal.Decimal) Usage {
	percent := decimal.Zero
	if budget.Amount.IsPositive() {
		percent = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return Usage{
		Budget:      budget,
		Spent:       spent,
		Remaining:   budget.Amount.Sub(spent),
		PercentUsed: percent,
		Exceeded:    spent.GreaterThan(budget.Amount),
	}
}
