package budget

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

type StubBudgetRepo struct {
	nextId int
	data   map[int]Budget
	// spent is returned by Spent, keyed by budget id.
	spent map[int]decimal.Decimal
}

func NewStubBudgetRepo() *StubBudgetRepo {
	nextId := 0
	data := map[int]Budget{}
	return &StubBudgetRepo{nextId, data, map[int]decimal.Decimal{}}
}

func (s *StubBudgetRepo) Store(ctx context.Context, budget Budget) (int, error) {
	if s.conflicts(budget, 0) {
		return 0, ErrBudgetExists
	}
	s.nextId++
	budget.Id = s.nextId
	s.data[budget.Id] = budget
	return budget.Id, nil
}

func (s *StubBudgetRepo) Get(ctx context.Context, id int) (*Budget, error) {
	budget, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &budget, nil
}

func (s *StubBudgetRepo) GetAll(ctx context.Context, familyId int, filter Filter) ([]Budget, error) {
	budgets := make([]Budget, 0, len(s.data))
	for _, budget := range s.data {
		if budget.FamilyId != familyId ||
			(filter.Month != nil && budget.Month != *filter.Month) ||
			(filter.Year != nil && budget.Year != *filter.Year) ||
			(filter.CategoryId != nil && orZero(budget.CategoryId) != *filter.CategoryId) ||
			(filter.UserId != nil && orZero(budget.UserId) != *filter.UserId) {
			continue
		}
		budgets = append(budgets, budget)
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Year != budgets[j].Year {
			return budgets[i].Year > budgets[j].Year
		}
		if budgets[i].Month != budgets[j].Month {
			return budgets[i].Month > budgets[j].Month
		}
		return budgets[i].Id < budgets[j].Id
	})
	return budgets, nil
}

func (s *StubBudgetRepo) Update(ctx context.Context, id int, p Patch) (bool, error) {
	budget, ok := s.data[id]
	if !ok {
		return false, nil
	}
	budget.CategoryId = mergeNullable(p.CategoryId, budget.CategoryId)
	budget.UserId = mergeNullable(p.UserId, budget.UserId)
	budget.Amount = p.Amount.OrElse(budget.Amount)
	budget.Month = p.Month.OrElse(budget.Month)
	budget.Year = p.Year.OrElse(budget.Year)
	if p.Type.IsSet() {
		budget.Type = nil
		if v, ok := p.Type.Get(); ok {
			budget.Type = &v
		}
	}
	if s.conflicts(budget, id) {
		return false, ErrBudgetExists
	}
	s.data[id] = budget
	return true, nil
}

func (s *StubBudgetRepo) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubBudgetRepo) Spent(ctx context.Context, budget Budget) (decimal.Decimal, error) {
	return s.spent[budget.Id], nil
}

func (s *StubBudgetRepo) SetSpent(budgetId int, amount decimal.Decimal) {
	s.spent[budgetId] = amount
}

func (s *StubBudgetRepo) conflicts(budget Budget, exceptId int) bool {
	for id, other := range s.data {
		if id != exceptId && other.FamilyId == budget.FamilyId && other.Month == budget.Month &&
			other.Year == budget.Year && orZero(other.CategoryId) == orZero(budget.CategoryId) &&
			orZero(other.UserId) == orZero(budget.UserId) {
			return true
		}
	}
	return false
}

func (s *StubBudgetRepo) Cleanup() {
	s.data = map[int]Budget{}
	s.spent = map[int]decimal.Decimal{}
}
