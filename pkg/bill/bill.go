package bill

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Frequency string

const (
	Once      Frequency = "once"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case Once, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// Next returns the due date following due, or false for one-off bills.
// Month based frequencies keep the day of month, clamped to the last day of
// shorter months.
func (f Frequency) Next(due time.Time) (time.Time, bool) {
	switch f {
	case Weekly:
		return due.AddDate(0, 0, 7), true
	case Monthly:
		return addMonths(due, 1), true
	case Quarterly:
		return addMonths(due, 3), true
	case Yearly:
		return addMonths(due, 12), true
	}
	return time.Time{}, false
}

func addMonths(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

type Status string

const (
	Paid    Status = "paid"
	Pending Status = "pending"
	Overdue Status = "overdue"
)

func (s Status) Valid() bool {
	return s == Paid || s == Pending || s == Overdue
}

type Bill struct {
	Id          int             `json:"id"`
	FamilyId    int             `json:"familyId"`
	CategoryId  *int            `json:"categoryId"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
	Frequency   Frequency       `json:"frequency"`
	Status      Status          `json:"status"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Patch struct {
	CategoryId  patch.Field[int]             `json:"categoryId"`
	Amount      patch.Field[decimal.Decimal] `json:"amount"`
	DueDate     patch.Field[time.Time]       `json:"dueDate"`
	Frequency   patch.Field[Frequency]       `json:"frequency"`
	Status      patch.Field[Status]          `json:"status"`
	Description patch.Field[string]          `json:"description"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "category_id", p.CategoryId)
	list = patch.AppendWith(list, "amount", p.Amount, database.Amount)
	list = patch.AppendWith(list, "due_date", p.DueDate, func(t time.Time) any { return database.FormatDate(t) })
	list = patch.AppendWith(list, "frequency", p.Frequency, func(f Frequency) any { return string(f) })
	list = patch.AppendWith(list, "status", p.Status, func(s Status) any { return string(s) })
	list = patch.Append(list, "description", p.Description)
	return list
}

type Filter struct {
	Status     *Status
	CategoryId *int
	From       *time.Time
	To         *time.Time
}

func (f Filter) conditions(c *database.Conditions) {
	if f.Status != nil {
		c.Add("status = ?", string(*f.Status))
	}
	if f.CategoryId != nil {
		c.Add("category_id = ?", *f.CategoryId)
	}
	if f.From != nil {
		c.Add("due_date >= ?", database.FormatDate(*f.From))
	}
	if f.To != nil {
		c.Add("due_date <= ?", database.FormatDate(*f.To))
	}
}

// Payment is the outcome of paying a bill: the paid bill and, for recurring
// bills, the pending occurrence created after it.
type Payment struct {
	Paid Bill  `json:"paid"`
	Next *Bill `json:"next,omitempty"`
}
