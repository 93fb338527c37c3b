package expense

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Status string

const (
	Valid     Status = "valid"
	Pending   Status = "pending"
	Cancelled Status = "cancelled"
	Refunded  Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case Valid, Pending, Cancelled, Refunded:
		return true
	}
	return false
}

type Expense struct {
	Id          int             `json:"id"`
	CategoryId  int             `json:"categoryId"`
	UserId      int             `json:"userId"`
	FamilyId    int             `json:"familyId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	ModifiedAt  time.Time       `json:"modifiedAt"`
}

type Patch struct {
	CategoryId  patch.Field[int]             `json:"categoryId"`
	UserId      patch.Field[int]             `json:"userId"`
	Amount      patch.Field[decimal.Decimal] `json:"amount"`
	Date        patch.Field[time.Time]       `json:"date"`
	Description patch.Field[string]          `json:"description"`
	Status      patch.Field[Status]          `json:"status"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "category_id", p.CategoryId)
	list = patch.Append(list, "user_id", p.UserId)
	list = patch.AppendWith(list, "amount", p.Amount, database.Amount)
	list = patch.AppendWith(list, "date", p.Date, func(t time.Time) any { return database.FormatDate(t) })
	list = patch.Append(list, "description", p.Description)
	list = patch.AppendWith(list, "status", p.Status, func(s Status) any { return string(s) })
	return list
}

type Filter struct {
	Status     *Status
	CategoryId *int
	UserId     *int
	From       *time.Time
	To         *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

func (f Filter) conditions(c *database.Conditions) {
	if f.Status != nil {
		c.Add("e.status = ?", string(*f.Status))
	}
	if f.CategoryId != nil {
		c.Add("e.category_id = ?", *f.CategoryId)
	}
	if f.UserId != nil {
		c.Add("e.user_id = ?", *f.UserId)
	}
	if f.From != nil {
		c.Add("e.date >= ?", database.FormatDate(*f.From))
	}
	if f.To != nil {
		c.Add("e.date <= ?", database.FormatDate(*f.To))
	}
	if f.MinAmount != nil {
		c.Add("e.amount >= ?", database.Amount(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		c.Add("e.amount <= ?", database.Amount(*f.MaxAmount))
	}
}

// CategoryTotal is the sum of valid expenses of one category over a month.
type CategoryTotal struct {
	CategoryId   int             `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Count        int             `json:"count"`
}
