package savings_goal

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
	ErrNameRequired   = failure.Rule("savings goal name is required")
	ErrInvalidTarget  = failure.Rule("target amount must be greater than zero")
	ErrInvalidAmount  = failure.Rule("amount must be greater than zero")
	ErrNegativeAmount = failure.Rule("saved amount cannot be negative")
	ErrInvalidStatus  = failure.Rule("savings goal status must be in_progress, reached or abandoned")
	ErrMissingField   = failure.Rule("name, amounts, target date and status are required")
)

type Service interface {
	Create(ctx context.Context, goal SavingsGoal) (SavingsGoal, error)
	GetById(ctx context.Context, id int) (*SavingsGoal, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]SavingsGoal, error)
	Update(ctx context.Context, id int, p Patch) (*SavingsGoal, error)
	Delete(ctx context.Context, id int) (bool, error)
	AddAmount(ctx context.Context, id int, amount decimal.Decimal) (*SavingsGoal, error)
}

type ServiceImpl struct {
	repo     Repository
	clock    utils.Clock
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, clock utils.Clock, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock, eventBus: eventBus}
}

func (s *ServiceImpl) Create(ctx context.Context, goal SavingsGoal) (SavingsGoal, error) {
	if strings.TrimSpace(goal.Name) == "" {
		return SavingsGoal{}, ErrNameRequired
	}
	if !goal.TargetAmount.IsPositive() {
		return SavingsGoal{}, ErrInvalidTarget
	}
	if goal.CurrentAmount.IsNegative() {
		return SavingsGoal{}, ErrNegativeAmount
	}
	if goal.Status == "" {
		goal.Status = InProgress
	}
	if !goal.Status.Valid() {
		return SavingsGoal{}, ErrInvalidStatus
	}
	if goal.reachedNow() {
		goal.Status = Reached
	}
	goal.TargetDate = database.Day(goal.TargetDate)
	goal.CreatedAt = database.Timestamp(s.clock.Now())

	id, err := s.repo.Create(ctx, goal)
	if err != nil {
		return SavingsGoal{}, failure.Store("create savings goal", err)
	}
	goal.Id = id
	return goal, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*SavingsGoal, error) {
	goal, err := s.repo.GetById(ctx, id)
	return goal, failure.Store("get savings goal", err)
}

func (s *ServiceImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]SavingsGoal, error) {
	goals, err := s.repo.ListByFamily(ctx, familyId, filter)
	return goals, failure.Store("list savings goals", err)
}

// Update moves a goal in progress to reached when the new amounts meet the
// target.
func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*SavingsGoal, error) {
	if p.Name.IsNull() || p.TargetAmount.IsNull() || p.CurrentAmount.IsNull() || p.TargetDate.IsNull() || p.Status.IsNull() {
		return nil, ErrMissingField
	}
	if target, ok := p.TargetAmount.Get(); ok && !target.IsPositive() {
		return nil, ErrInvalidTarget
	}
	if current, ok := p.CurrentAmount.Get(); ok && current.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if status, ok := p.Status.Get(); ok && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if date, ok := p.TargetDate.Get(); ok {
		p.TargetDate = patch.Set(database.Day(date))
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update savings goal", err)
	}
	if !found {
		return nil, nil
	}
	goal, err := s.GetById(ctx, id)
	if err != nil || goal == nil || !goal.reachedNow() {
		return goal, err
	}
	if _, err := s.repo.Update(ctx, id, Patch{Status: patch.Set(Reached)}); err != nil {
		return nil, failure.Store("update savings goal", err)
	}
	goal.Status = Reached
	s.publishReached(ctx, *goal)
	return goal, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete savings goal", err)
}

// AddAmount returns nil when the goal does not exist.
func (s *ServiceImpl) AddAmount(ctx context.Context, id int, amount decimal.Decimal) (*SavingsGoal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	before, err := s.GetById(ctx, id)
	if err != nil || before == nil {
		return nil, err
	}
	found, err := s.repo.AddAmount(ctx, id, amount)
	if err != nil {
		return nil, failure.Store("add to savings goal", err)
	}
	if !found {
		return nil, nil
	}
	after, err := s.GetById(ctx, id)
	if err != nil || after == nil {
		return after, err
	}
	if before.Status != Reached && after.Status == Reached {
		s.publishReached(ctx, *after)
	}
	return after, nil
}

func (s *ServiceImpl) publishReached(ctx context.Context, goal SavingsGoal) {
	if s.eventBus == nil {
		return
	}
	event := event_bus.NewEvent(ctx, event_bus.SavingsGoalReachedEvent, event_bus.SavingsGoalReached{
		GoalId:        goal.Id,
		FamilyId:      goal.FamilyId,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount,
		CurrentAmount: goal.CurrentAmount,
	})
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("savings goal %d reached but not every subscriber was notified: %v", goal.Id, err)
	}
}
