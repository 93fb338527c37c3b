package event_bus

import "github.com/shopspring/decimal"

const (
	DebtRepaidEvent         EventType = "debt.repaid"
	SavingsGoalReachedEvent EventType = "savings_goal.reached"
)

type DebtRepaid struct {
	DebtId   int
	FamilyId int
	Creditor string
	Amount   decimal.Decimal
}

type SavingsGoalReached struct {
	GoalId        int
	FamilyId      int
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
}
