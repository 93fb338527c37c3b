package debt

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type StubRepository struct {
	nextId int
	data   map[int]Debt
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]Debt{}}
}

func (s *StubRepository) Create(ctx context.Context, debt Debt) (int, error) {
	s.nextId++
	debt.Id = s.nextId
	s.data[debt.Id] = debt
	return debt.Id, nil
}

func (s *StubRepository) GetById(ctx context.Context, id int) (*Debt, error) {
	debt, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &debt, nil
}

func (s *StubRepository) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Debt, error) {
	debts := make([]Debt, 0, len(s.data))
	for _, debt := range s.data {
		if debt.FamilyId != familyId ||
			(filter.Status != nil && debt.Status != *filter.Status) ||
			(filter.Creditor != nil && debt.Creditor != *filter.Creditor) {
			continue
		}
		debts = append(debts, debt)
	}
	sort.Slice(debts, func(i, j int) bool {
		if !debts[i].StartDate.Equal(debts[j].StartDate) {
			return debts[i].StartDate.After(debts[j].StartDate)
		}
		return debts[i].Id > debts[j].Id
	})
	return debts, nil
}

func (s *StubRepository) Update(ctx context.Context, id int, p Patch) (bool, error) {
	debt, ok := s.data[id]
	if !ok {
		return false, nil
	}
	debt.Creditor = p.Creditor.OrElse(debt.Creditor)
	debt.InitialAmount = p.InitialAmount.OrElse(debt.InitialAmount)
	debt.CurrentAmount = p.CurrentAmount.OrElse(debt.CurrentAmount)
	debt.InterestRate = p.InterestRate.OrElse(debt.InterestRate)
	debt.StartDate = p.StartDate.OrElse(debt.StartDate)
	debt.Status = p.Status.OrElse(debt.Status)
	if p.DueDate.IsSet() {
		debt.DueDate = nil
		if due, ok := p.DueDate.Get(); ok {
			debt.DueDate = &due
		}
	}
	if p.Description.IsSet() {
		debt.Description = nil
		if description, ok := p.Description.Get(); ok {
			debt.Description = &description
		}
	}
	s.data[id] = debt
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepository) Repay(ctx context.Context, id int, amount decimal.Decimal) (bool, error) {
	debt, ok := s.data[id]
	if !ok {
		return false, nil
	}
	s.data[id] = debt.repay(amount)
	return true, nil
}

func (s *StubRepository) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	count := 0
	for id, debt := range s.data {
		if debt.Status == Active && debt.DueDate != nil && debt.DueDate.Before(today) {
			debt.Status = Overdue
			s.data[id] = debt
			count++
		}
	}
	return count, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]Debt{}
}
