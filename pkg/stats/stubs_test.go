package stats

import (
	"context"
	"time"

	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/gestfin/gestfin/pkg/expense"
	"github.com/shopspring/decimal"
)

type incomeTotalsStub struct {
	total    decimal.Decimal
	from, to time.Time
}

func (s *incomeTotalsStub) Total(_ context.Context, _ int, from, to time.Time) (decimal.Decimal, error) {
	s.from, s.to = from, to
	return s.total, nil
}

type expenseTotalsStub struct {
	totals []expense.CategoryTotal
}

func (s *expenseTotalsStub) TotalByCategory(context.Context, int, int, int) ([]expense.CategoryTotal, error) {
	return s.totals, nil
}

type budgetUsagesStub struct {
	usages []budget.Usage
}

func (s *budgetUsagesStub) ListByPeriod(context.Context, int, int, int) ([]budget.Budget, error) {
	budgets := make([]budget.Budget, 0, len(s.usages))
	for _, u := range s.usages {
		budgets = append(budgets, u.Budget)
	}
	return budgets, nil
}

func (s *budgetUsagesStub) GetUsage(_ context.Context, id int) (*budget.Usage, error) {
	for _, u := range s.usages {
		if u.Budget.Id == id {
			return &u, nil
		}
	}
	return nil, nil
}
