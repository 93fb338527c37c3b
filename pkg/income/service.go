package income

import (
	"context"
	"strings"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount  = failure.Rule("income amount cannot be negative")
	ErrInvalidStatus  = failure.Rule("income status must be valid, pending or cancelled")
	ErrSourceRequired = failure.Rule("income source is required")
	ErrMissingField   = failure.Rule("category, account, amount, date, source and status are required")
)

type Service interface {
	Create(ctx context.Context, income Income) (Income, error)
	GetById(ctx context.Context, id int) (*Income, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Income, error)
	Update(ctx context.Context, id int, p Patch) (*Income, error)
	Delete(ctx context.Context, id int) (bool, error)
	Total(ctx context.Context, familyId int, from, to time.Time) (decimal.Decimal, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, income Income) (Income, error) {
	if income.Status == "" {
		income.Status = transaction.Valid
	}
	if !income.Status.Valid() {
		return Income{}, ErrInvalidStatus
	}
	if income.Amount.IsNegative() {
		return Income{}, ErrInvalidAmount
	}
	if strings.TrimSpace(income.Source) == "" {
		return Income{}, ErrSourceRequired
	}
	now := database.Timestamp(s.clock.Now())
	income.Date = database.Day(income.Date)
	income.CreatedAt = now
	income.ModifiedAt = now

	created, err := s.repo.Create(ctx, income)
	if err != nil {
		return Income{}, failure.Store("create income", err)
	}
	return created, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Income, error) {
	income, err := s.repo.GetById(ctx, id)
	return income, failure.Store("get income", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Income, error) {
	incomes, err := s.repo.ListByFamily(ctx, familyId, filter)
	return incomes, failure.Store("list income", err)
}

func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Income, error) {
	if p.CategoryId.IsNull() || p.AccountId.IsNull() || p.Amount.IsNull() || p.Date.IsNull() ||
		p.Source.IsNull() || p.Status.IsNull() {
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
		return nil, failure.Store("update income", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete income", err)
}

func (s *ServiceImpl) Total(ctx context.Context, familyId int, from, to time.Time) (decimal.Decimal, error) {
	total, err := s.repo.Total(ctx, familyId, from, to)
	return total, failure.Store("sum income", err)
}
