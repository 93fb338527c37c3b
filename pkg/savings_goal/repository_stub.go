package savings_goal

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

type StubRepository struct {
	nextId int
	data   map[int]SavingsGoal
}

func NewStubRepository() *StubRepository {
	return &StubRepository{data: map[int]SavingsGoal{}}
}

func (s *StubRepository) Create(ctx context.Context, goal SavingsGoal) (int, error) {
	s.nextId++
	goal.Id = s.nextId
	s.data[goal.Id] = goal
	return goal.Id, nil
}

func (s *StubRepository) GetById(ctx context.Context, id int) (*SavingsGoal, error) {
	goal, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &goal, nil
}

func (s *StubRepository) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]SavingsGoal, error) {
	goals := make([]SavingsGoal, 0, len(s.data))
	for _, goal := range s.data {
		if goal.FamilyId == familyId && (filter.Status == nil || goal.Status == *filter.Status) {
			goals = append(goals, goal)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].TargetDate.Equal(goals[j].TargetDate) {
			return goals[i].TargetDate.After(goals[j].TargetDate)
		}
		return goals[i].Id > goals[j].Id
	})
	return goals, nil
}

func (s *StubRepository) Update(ctx context.Context, id int, p Patch) (bool, error) {
	goal, ok := s.data[id]
	if !ok {
		return false, nil
	}
	goal.Name = p.Name.OrElse(goal.Name)
	goal.TargetAmount = p.TargetAmount.OrElse(goal.TargetAmount)
	goal.CurrentAmount = p.CurrentAmount.OrElse(goal.CurrentAmount)
	goal.TargetDate = p.TargetDate.OrElse(goal.TargetDate)
	goal.Status = p.Status.OrElse(goal.Status)
	if p.Description.IsSet() {
		goal.Description = nil
		if description, ok := p.Description.Get(); ok {
			goal.Description = &description
		}
	}
	s.data[id] = goal
	return true, nil
}

func (s *StubRepository) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.data[id]; !ok {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *StubRepository) AddAmount(ctx context.Context, id int, amount decimal.Decimal) (bool, error) {
	goal, ok := s.data[id]
	if !ok {
		return false, nil
	}
	s.data[id] = goal.add(amount)
	return true, nil
}

func (s *StubRepository) Cleanup() {
	s.data = map[int]SavingsGoal{}
}
