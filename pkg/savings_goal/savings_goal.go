package savings_goal

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Status string

const (
	InProgress Status = "in_progress"
	Reached    Status = "reached"
	Abandoned  Status = "abandoned"
)

func (s Status) Valid() bool {
	return s == InProgress || s == Reached || s == Abandoned
}

type SavingsGoal struct {
	Id            int             `json:"id"`
	FamilyId      int             `json:"familyId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	Description   *string         `json:"description"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

var hundred = decimal.NewFromInt(100)

// Progress is the saved share of the target in percent, capped at 100.
func (g SavingsGoal) Progress() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	progress := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).Round(2)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	return progress
}

// Remaining is what is still missing to reach the target, never negative.
func (g SavingsGoal) Remaining() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// reachedNow reports whether the goal should move to reached.
func (g SavingsGoal) reachedNow() bool {
	return g.Status == InProgress && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// add raises the saved amount, moving a goal in progress to reached once
// the target is met.
func (g SavingsGoal) add(amount decimal.Decimal) SavingsGoal {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.reachedNow() {
		g.Status = Reached
	}
	return g
}

type View struct {
	SavingsGoal
	Progress  decimal.Decimal `json:"progress"`
	Remaining decimal.Decimal `json:"remaining"`
}

func NewView(g SavingsGoal) View {
	return View{SavingsGoal: g, Progress: g.Progress(), Remaining: g.Remaining()}
}

type Patch struct {
	Name          patch.Field[string]          `json:"name"`
	TargetAmount  patch.Field[decimal.Decimal] `json:"targetAmount"`
	CurrentAmount patch.Field[decimal.Decimal] `json:"currentAmount"`
	TargetDate    patch.Field[time.Time]       `json:"targetDate"`
	Description   patch.Field[string]          `json:"description"`
	Status        patch.Field[Status]          `json:"status"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "name", p.Name)
	list = patch.AppendWith(list, "target_amount", p.TargetAmount, database.Amount)
	list = patch.AppendWith(list, "current_amount", p.CurrentAmount, database.Amount)
	list = patch.AppendWith(list, "target_date", p.TargetDate, func(t time.Time) any { return database.FormatDate(t) })
	list = patch.Append(list, "description", p.Description)
	list = patch.AppendWith(list, "status", p.Status, func(s Status) any { return string(s) })
	return list
}

type Filter struct {
	Status *Status
}
