package expense

import (
	"context"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
)

var (
	ErrInvalidAmount = failure.Rule("expense amount cannot be negative")
	ErrInvalidStatus = failure.Rule("expense status must be valid, pending, cancelled or refunded")
	ErrInvalidPeriod = failure.Rule("month must be between 1 and 12")
	ErrMissingField  = failure.Rule("category, user, amount, date and status are required")
)

type Service interface {
	Create(ctx context.Context, expense Expense) (Expense, error)
	GetById(ctx context.Context, id int) (*Expense, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Expense, error)
	Update(ctx context.Context, id int, p Patch) (*Expense, error)
	Delete(ctx context.Context, id int) (bool, error)
	TotalByCategory(ctx context.Context, familyId int, month int, year int) ([]CategoryTotal, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, expense Expense) (Expense, error) {
	if expense.Status == "" {
		expense.Status = Valid
	}
	if !expense.Status.Valid() {
		return Expense{}, ErrInvalidStatus
	}
	if expense.Amount.IsNegative() {
		return Expense{}, ErrInvalidAmount
	}
	now := database.Timestamp(s.clock.Now())
	expense.Date = database.Day(expense.Date)
	expense.CreatedAt = now
	expense.ModifiedAt = now

	id, err := s.repo.Create(ctx, expense)
	if err != nil {
		return Expense{}, failure.Store("create expense", err)
	}
	expense.Id = id
	return expense, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Expense, error) {
	expense, err := s.repo.GetById(ctx, id)
	return expense, failure.Store("get expense", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Expense, error) {
	expenses, err := s.repo.ListByFamily(ctx, familyId, filter)
	return expenses, failure.Store("list expenses", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Expense, error) {
	if p.CategoryId.IsNull() || p.UserId.IsNull() || p.Amount.IsNull() || p.Date.IsNull() || p.Status.IsNull() {
		return nil, ErrMissingField
	}
	if amount, ok := p.Amount.Get(); ok && amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if status, ok := p.Status.Get(); ok && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if date, ok := p.Date.Get(); ok {
		p.Date = patch.Set(database.Day(date))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p, database.Timestamp(s.clock.Now()))
	if err != nil {
		return nil, failure.Store("update expense", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete expense", err)
}

func (s *ServiceImpl) TotalByCategory(ctx context.Context, familyId int, month int, year int) ([]CategoryTotal, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidPeriod
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	totals, err := s.repo.TotalByCategory(ctx, familyId, from, from.AddDate(0, 1, 0))
	return totals, failure.Store("sum expenses by category", err)
}
