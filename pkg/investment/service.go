package investment

import (
	"context"
	"strings"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired   = failure.Rule("investment name is required")
	ErrInvalidType    = failure.Rule("unknown investment type")
	ErrNegativeAmount = failure.Rule("investment amounts cannot be negative")
	ErrAlreadySold    = failure.Rule("investment is already sold")
	ErrMissingField   = failure.Rule("type, name, amounts, purchase date and return rate are required")
)

type Service interface {
	Create(ctx context.Context, investment Investment) (Investment, error)
	GetById(ctx context.Context, id int) (*Investment, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Investment, error)
	Update(ctx context.Context, id int, p Patch) (*Investment, error)
	Delete(ctx context.Context, id int) (bool, error)
	UpdateValue(ctx context.Context, id int, value decimal.Decimal) (*Investment, error)
	// Sell records the sale value on a date, today when saleDate is zero.
	Sell(ctx context.Context, id int, saleValue decimal.Decimal, saleDate time.Time) (*Investment, error)
	Portfolio(ctx context.Context, familyId int) (Portfolio, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

// Create always derives the return rate from the two amounts.
func (s *ServiceImpl) Create(ctx context.Context, investment Investment) (Investment, error) {
	if strings.TrimSpace(investment.Name) == "" {
		return Investment{}, ErrNameRequired
	}
	if !investment.Type.Valid() {
		return Investment{}, ErrInvalidType
	}
	if investment.InvestedAmount.IsNegative() || investment.CurrentValue.IsNegative() {
		return Investment{}, ErrNegativeAmount
	}
	investment.ReturnRate = ReturnRate(investment.InvestedAmount, investment.CurrentValue)
	investment.PurchaseDate = database.Day(investment.PurchaseDate)
	if investment.SaleDate != nil {
		sold := database.Day(*investment.SaleDate)
		investment.SaleDate = &sold
	}
	investment.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, investment)
	if err != nil {
		return Investment{}, failure.Store("create investment", err)
	}
	investment.Id = id
	return investment, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Investment, error) {
	investment, err := s.repo.GetById(ctx, id)
	return investment, failure.Store("get investment", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Investment, error) {
	investments, err := s.repo.ListByFamily(ctx, familyId, filter)
	return investments, failure.Store("list investments", err)
}

// Update recomputes the return rate when either amount changes, unless the
// patch sets the rate itself.
func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Investment, error) {
	if p.Type.IsNull() || p.Name.IsNull() || p.InvestedAmount.IsNull() || p.CurrentValue.IsNull() ||
		p.PurchaseDate.IsNull() || p.ReturnRate.IsNull() {
		return nil, ErrMissingField
	}
	if t, ok := p.Type.Get(); ok && !t.Valid() {
		return nil, ErrInvalidType
	}
	for _, amount := range []patch.Field[decimal.Decimal]{p.InvestedAmount, p.CurrentValue} {
		if v, ok := amount.Get(); ok && v.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}
	if date, ok := p.PurchaseDate.Get(); ok {
		p.PurchaseDate = patch.Set(database.Day(date))
	}
	if date, ok := p.SaleDate.Get(); ok {
		p.SaleDate = patch.Set(database.Day(date))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}

	if (p.InvestedAmount.IsSet() || p.CurrentValue.IsSet()) && !p.ReturnRate.IsSet() {
		current, err := s.GetById(ctx, id)
		if err != nil || current == nil {
			return nil, err
		}
		invested := p.InvestedAmount.OrElse(current.InvestedAmount)
		value := p.CurrentValue.OrElse(current.CurrentValue)
		p.ReturnRate = patch.Set(ReturnRate(invested, value))
	}

	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update investment", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete investment", err)
}

func (s *ServiceImpl) UpdateValue(ctx context.Context, id int, value decimal.Decimal) (*Investment, error) {
	return s.Update(ctx, id, Patch{CurrentValue: patch.Set(value)})
}

func (s *ServiceImpl) Sell(ctx context.Context, id int, saleValue decimal.Decimal, saleDate time.Time) (*Investment, error) {
	investment, err := s.GetById(ctx, id)
	if err != nil || investment == nil {
		return nil, err
	}
	if investment.Sold() {
		return nil, ErrAlreadySold
	}
	if saleDate.IsZero() {
		saleDate = utils.Today(s.clock)
	}
	return s.Update(ctx, id, Patch{CurrentValue: patch.Set(saleValue), SaleDate: patch.Set(saleDate)})
}

func (s *ServiceImpl) Portfolio(ctx context.Context, familyId int) (Portfolio, error) {
	totals, err := s.repo.TotalsByType(ctx, familyId)
	if err != nil {
		return Portfolio{}, failure.Store("compute portfolio", err)
	}
	return NewPortfolio(totals), nil
}
