package debt

import (
	"context"
	"strings"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/event_bus"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	ErrCreditorRequired = failure.Rule("creditor is required")
	ErrInvalidAmount    = failure.Rule("amount must be greater than zero")
	ErrNegativeAmount   = failure.Rule("debt amounts and interest rate cannot be negative")
	ErrInvalidStatus    = failure.Rule("debt status must be active, repaid or overdue")
	ErrMissingField     = failure.Rule("creditor, amounts, interest rate, start date and status are required")
)

type Service interface {
	Create(ctx context.Context, debt Debt) (Debt, error)
	GetById(ctx context.Context, id int) (*Debt, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Debt, error)
	Update(ctx context.Context, id int, p Patch) (*Debt, error)
	Delete(ctx context.Context, id int) (bool, error)
	Repay(ctx context.Context, id int, amount decimal.Decimal) (*Debt, error)
	CheckOverdue(ctx context.Context) (int, error)
}

type ServiceImpl struct {
	repo     Repository
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, eventBus: eventBus}
}

// Create fills a zero current amount with the initial amount.
func (s *ServiceImpl) Create(ctx context.Context, debt Debt) (Debt, error) {
	if strings.TrimSpace(debt.Creditor) == "" {
		return Debt{}, ErrCreditorRequired
	}
	if debt.Status == "" {
		debt.Status = Active
	}
	if !debt.Status.Valid() {
		return Debt{}, ErrInvalidStatus
	}
	if debt.CurrentAmount.IsZero() && debt.Status != Repaid {
		debt.CurrentAmount = debt.InitialAmount
	}
	if debt.InitialAmount.IsNegative() || debt.CurrentAmount.IsNegative() || debt.InterestRate.IsNegative() {
		return Debt{}, ErrNegativeAmount
	}
	debt.StartDate = database.Day(debt.StartDate)
	if debt.DueDate != nil {
		due := database.Day(*debt.DueDate)
		debt.DueDate = &due
	}
	debt.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, debt)
	if err != nil {
		return Debt{}, failure.Store("create debt", err)
	}
	debt.Id = id
	return debt, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Debt, error) {
	debt, err := s.repo.GetById(ctx, id)
	return debt, failure.Store("get debt", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Debt, error) {
	debts, err := s.repo.ListByFamily(ctx, familyId, filter)
	return debts, failure.Store("list debts", err)
}

// Update moves a debt with nothing left to repaid. Becoming repaid publishes
// DebtRepaidEvent.
func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Debt, error) {
	if p.Creditor.IsNull() || p.InitialAmount.IsNull() || p.CurrentAmount.IsNull() || p.InterestRate.IsNull() ||
		p.StartDate.IsNull() || p.Status.IsNull() {
		return nil, ErrMissingField
	}
	for _, amount := range []patch.Field[decimal.Decimal]{p.InitialAmount, p.CurrentAmount, p.InterestRate} {
		if v, ok := amount.Get(); ok && v.IsNegative() {
			return nil, ErrNegativeAmount
		}
	}
	if status, ok := p.Status.Get(); ok && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if start, ok := p.StartDate.Get(); ok {
		p.StartDate = patch.Set(database.Day(start))
	}
	if due, ok := p.DueDate.Get(); ok {
		p.DueDate = patch.Set(database.Day(due))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	before, err := s.GetById(ctx, id)
	if err != nil || before == nil {
		return nil, err
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update debt", err)
	}
	if !found {
		return nil, nil
	}
	after, err := s.GetById(ctx, id)
	if err != nil || after == nil {
		return after, err
	}
	if after.settledNow() {
		if _, err := s.repo.Update(ctx, id, Patch{Status: patch.Set(Repaid)}); err != nil {
			return nil, failure.Store("update debt", err)
		}
		after.Status = Repaid
	}
	if before.Status != Repaid && after.Status == Repaid {
		s.publishRepaid(ctx, *after)
	}
	return after, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete debt", err)
}

// Repay returns nil when the debt does not exist. Reaching zero publishes
// DebtRepaidEvent.
func (s *ServiceImpl) Repay(ctx context.Context, id int, amount decimal.Decimal) (*Debt, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	before, err := s.GetById(ctx, id)
	if err != nil || before == nil {
		return nil, err
	}
	found, err := s.repo.Repay(ctx, id, amount)
	if err != nil {
		return nil, failure.Store("repay debt", err)
	}
	if !found {
		return nil, nil
	}
	after, err := s.GetById(ctx, id)
	if err != nil || after == nil {
		return after, err
	}

	if before.Status != Repaid && after.Status == Repaid {
		s.publishRepaid(ctx, *after)
	}
	return after, nil
}

func (s *ServiceImpl) publishRepaid(ctx context.Context, debt Debt) {
	if s.eventBus == nil {
		return
	}
	event := event_bus.NewEvent(ctx, event_bus.DebtRepaidEvent, event_bus.DebtRepaid{
		DebtId:   debt.Id,
		FamilyId: debt.FamilyId,
		Creditor: debt.Creditor,
		Amount:   debt.InitialAmount,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("debt %d repaid but not every subscriber was notified: %v", debt.Id, err)
	}
}

func (s *ServiceImpl) CheckOverdue(ctx context.Context) (int, error) {
	count, err := s.repo.MarkOverdue(ctx, utils.Today(s.clock))
	if err != nil {
		return 0, failure.Store("check overdue debts", err)
	}
	if count > 0 {
		log.Infof("%d debt(s) are now overdue", count)
	}
	return count, nil
}
