package stats

import (
	"context"
	"time"

	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/gestfin/gestfin/pkg/expense"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type IncomeTotals interface {
	Total(ctx context.Context, familyId int, from, to time.Time) (decimal.Decimal, error)
}

type ExpenseTotals interface {
	TotalByCategory(ctx context.Context, familyId int, month int, year int) ([]expense.CategoryTotal, error)
}

type BudgetUsages interface {
	ListByPeriod(ctx context.Context, familyId int, month int, year int) ([]budget.Budget, error)
	GetUsage(ctx context.Context, id int) (*budget.Usage, error)
}

type StatsService interface {
	GetMonthlySummary(ctx context.Context, familyId int, month int, year int) (MonthlySummary, error)
}

type StatsServiceImpl struct {
	incomes  IncomeTotals
	expenses ExpenseTotals
	budgets  BudgetUsages
}

func NewStatsServiceImpl(incomes IncomeTotals, expenses ExpenseTotals, budgets BudgetUsages) *StatsServiceImpl {
	return &StatsServiceImpl{incomes: incomes, expenses: expenses, budgets: budgets}
}

func (s *StatsServiceImpl) GetMonthlySummary(ctx context.Context, familyId int, month int, year int) (MonthlySummary, error) {
	if month < 1 || month > 12 {
		return MonthlySummary{}, budget.ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	categories, err := s.expenses.TotalByCategory(ctx, familyId, month, year)
	if err != nil {
		return MonthlySummary{}, err
	}
	income, err := s.incomes.Total(ctx, familyId, from, to)
	if err != nil {
		return MonthlySummary{}, err
	}
	budgets, err := s.budgets.ListByPeriod(ctx, familyId, month, year)
	if err != nil {
		return MonthlySummary{}, err
	}
	log.Tracef("Budgets of family %d for %d/%d: %v", familyId, month, year, budgets)

	summary := MonthlySummary{
		FamilyId:       familyId,
		Month:          month,
		Year:           year,
		StartDate:      from,
		EndDate:        to,
		Income:         income,
		Expenses:       decimal.Zero,
		Categories:     categories,
		Budgets:        make([]budget.Usage, 0, len(budgets)),
		TotalBudgeted:  decimal.Zero,
		TotalRemaining: decimal.Zero,
	}
	for _, c := range categories {
		summary.Expenses = summary.Expenses.Add(c.Total)
	}
	summary.Net = summary.Income.Sub(summary.Expenses)

	for _, b := range budgets {
		usage, err := s.budgets.GetUsage(ctx, b.Id)
		if err != nil {
			return MonthlySummary{}, err
		}
		if usage == nil {
			// deleted between the listing and the usage query
			continue
		}
		summary.Budgets = append(summary.Budgets, *usage)
		summary.TotalBudgeted = summary.TotalBudgeted.Add(usage.Budget.Amount)
		summary.TotalRemaining = summary.TotalRemaining.Add(usage.Remaining)
		if usage.Exceeded {
			summary.ExceededCount++
		}
	}
	return summary, nil
}
