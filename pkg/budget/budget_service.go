package budget

import (
	"context"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/utils"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidPeriod = failure.Rule("month must be between 1 and 12")
	ErrInvalidAmount = failure.Rule("budget amount cannot be negative")
	ErrMissingField  = failure.Rule("amount, month and year are required")
)

type BudgetService interface {
	Create(ctx context.Context, budget Budget) (Budget, error)
	GetById(ctx context.Context, id int) (*Budget, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Budget, error)
	ListByPeriod(ctx context.Context, familyId int, month int, year int) ([]Budget, error)
	Update(ctx context.Context, id int, p Patch) (*Budget, error)
	Delete(ctx context.Context, id int) (bool, error)
	GetUsage(ctx context.Context, id int) (*Usage, error)
}

type BudgetServiceImpl struct {
	repo  BudgetRepo
	clock utils.Clock
}

func NewBudgetServiceImpl(repo BudgetRepo, clock utils.Clock) *BudgetServiceImpl {
	return &BudgetServiceImpl{repo: repo, clock: clock}
}

func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	if !validMonth(budget.Month) {
		return Budget{}, ErrInvalidPeriod
	}
	if budget.Amount.IsNegative() {
		return Budget{}, ErrInvalidAmount
	}
	budget.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Store(ctx, budget)
	if err != nil {
		return Budget{}, failure.Store("create budget", err)
	}
	budget.Id = id

	return budget, nil
}

func (s *BudgetServiceImpl) GetById(ctx context.Context, id int) (*Budget, error) {
	budget, err := s.repo.Get(ctx, id)
	return budget, failure.Store("get budget", err)
}

func (s *BudgetServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Budget, error) {
	budgets, err := s.repo.GetAll(ctx, familyId, filter)
	return budgets, failure.Store("list budgets", err)
}

func (s *BudgetServiceImpl) ListByPeriod(ctx context.Context, familyId int, month int, year int) ([]Budget, error) {
	if !validMonth(month) {
		return nil, ErrInvalidPeriod
	}
	return s.ListByFamily(ctx, familyId, Filter{Month: &month, Year: &year})
}

func (s *BudgetServiceImpl) Update(ctx context.Context, id int, p Patch) (*Budget, error) {
	if p.Amount.IsNull() || p.Month.IsNull() || p.Year.IsNull() {
		return nil, ErrMissingField
	}
	if month, ok := p.Month.Get(); ok && !validMonth(month) {
		return nil, ErrInvalidPeriod
	}
	if amount, ok := p.Amount.Get(); ok && amount.IsNegative() {
		return nil, ErrInvalidAmount
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update budget", err)
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%d)", id)
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, failure.Store("delete budget", err)
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%d)", id)
	}
	return deleted, nil
}

// GetUsage returns nil when the budget does not exist.
func (s *BudgetServiceImpl) GetUsage(ctx context.Context, id int) (*Usage, error) {
	budget, err := s.GetById(ctx, id)
	if err != nil || budget == nil {
		return nil, err
	}
	spent, err := s.repo.Spent(ctx, *budget)
	if err != nil {
		return nil, failure.Store("compute budget usage", err)
	}
	usage := NewUsage(*budget, spent)
	return &usage, nil
}

func validMonth(month int) bool {
	return month >= 1 && month <= 12
}

