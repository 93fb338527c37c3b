package debt

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Status string

const (
	Active  Status = "active"
	Repaid  Status = "repaid"
	Overdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == Active || s == Repaid || s == Overdue
}

type Debt struct {
	Id            int             `json:"id"`
	FamilyId      int             `json:"familyId"`
	Creditor      string          `json:"creditor"`
	InitialAmount decimal.Decimal `json:"initialAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	StartDate     time.Time       `json:"startDate"`
	DueDate       *time.Time      `json:"dueDate"`
	Status        Status          `json:"status"`
	Description   *string         `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Interest is the simple interest on the initial amount.
func (d Debt) Interest() decimal.Decimal {
	return d.InitialAmount.Mul(d.InterestRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Repaid is the part of the initial amount already paid back.
func (d Debt) Repaid() decimal.Decimal {
	return d.InitialAmount.Sub(d.CurrentAmount)
}

// repay lowers the current amount, never below zero. A debt with nothing
// left is repaid.
func (d Debt) repay(amount decimal.Decimal) Debt {
	d.CurrentAmount = decimal.Max(d.CurrentAmount.Sub(amount), decimal.Zero)
	if d.CurrentAmount.IsZero() {
		d.Status = Repaid
	}
	return d
}

// settledNow reports whether the debt should move to repaid.
func (d Debt) settledNow() bool {
	return d.Status != Repaid && !d.CurrentAmount.IsPositive()
}

// View adds the computed amounts to a debt for API responses.
type View struct {
	Debt
	Interest decimal.Decimal `json:"interest"`
	Repaid   decimal.Decimal `json:"repaid"`
}

func NewView(d Debt) View {
	return View{Debt: d, Interest: d.Interest(), Repaid: d.Repaid()}
}

type Patch struct {
	Creditor      patch.Field[string]          `json:"creditor"`
	InitialAmount patch.Field[decimal.Decimal] `json:"initialAmount"`
	CurrentAmount patch.Field[decimal.Decimal] `json:"currentAmount"`
	InterestRate  patch.Field[decimal.Decimal] `json:"interestRate"`
	StartDate     patch.Field[time.Time]       `json:"startDate"`
	DueDate       patch.Field[time.Time]       `json:"dueDate"`
	Status        patch.Field[Status]          `json:"status"`
	Description   patch.Field[string]          `json:"description"`
}

func (p Patch) Assignments() []patch.Assignment {
	date := func(t time.Time) any { return database.FormatDate(t) }
	var list []patch.Assignment
	list = patch.Append(list, "creditor", p.Creditor)
	list = patch.AppendWith(list, "initial_amount", p.InitialAmount, database.Amount)
	list = patch.AppendWith(list, "current_amount", p.CurrentAmount, database.Amount)
	list = patch.AppendWith(list, "interest_rate", p.InterestRate, database.Amount)
	list = patch.AppendWith(list, "start_date", p.StartDate, date)
	list = patch.AppendWith(list, "due_date", p.DueDate, date)
	list = patch.AppendWith(list, "status", p.Status, func(s Status) any { return string(s) })
	list = patch.Append(list, "description", p.Description)
	return list
}

type Filter struct {
	Status   *Status
	Creditor *string
}
