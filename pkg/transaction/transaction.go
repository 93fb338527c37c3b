package transaction

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Type string

const (
	Income   Type = "income"
	Expense  Type = "expense"
	Transfer Type = "transfer"
)

func (t Type) Valid() bool {
	return t == Income || t == Expense || t == Transfer
}

type Status string

const (
	Valid     Status = "valid"
	Pending   Status = "pending"
	Cancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == Valid || s == Pending || s == Cancelled
}

type Transaction struct {
	Id          int             `json:"id"`
	AccountId   int             `json:"accountId"`
	CategoryId  *int            `json:"categoryId"`
	UserId      int             `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description *string         `json:"description"`
	Type        Type            `json:"type"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Patch struct {
	AccountId   patch.Field[int]             `json:"accountId"`
	CategoryId  patch.Field[int]             `json:"categoryId"`
	Amount      patch.Field[decimal.Decimal] `json:"amount"`
	Date        patch.Field[time.Time]       `json:"date"`
	Description patch.Field[string]          `json:"description"`
	Type        patch.Field[Type]            `json:"type"`
	Status      patch.Field[Status]          `json:"status"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "account_id", p.AccountId)
	list = patch.Append(list, "category_id", p.CategoryId)
	list = patch.AppendWith(list, "amount", p.Amount, database.Amount)
	list = patch.AppendWith(list, "date", p.Date, func(t time.Time) any { return database.FormatDate(t) })
	list = patch.Append(list, "description", p.Description)
	list = patch.AppendWith(list, "type", p.Type, func(t Type) any { return string(t) })
	list = patch.AppendWith(list, "status", p.Status, func(s Status) any { return string(s) })
	return list
}

// Filter narrows a listing; nil fields impose no constraint.
type Filter struct {
	Type       *Type
	Status     *Status
	CategoryId *int
	From       *time.Time
	To         *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

func (f Filter) conditions(c *database.Conditions) {
	if f.Type != nil {
		c.Add("type = ?", string(*f.Type))
	}
	if f.Status != nil {
		c.Add("status = ?", string(*f.Status))
	}
	if f.CategoryId != nil {
		c.Add("category_id = ?", *f.CategoryId)
	}
	if f.From != nil {
		c.Add("date >= ?", database.FormatDate(*f.From))
	}
	if f.To != nil {
		c.Add("date <= ?", database.FormatDate(*f.To))
	}
	if f.MinAmount != nil {
		c.Add("amount >= ?", database.Amount(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		c.Add("amount <= ?", database.Amount(*f.MaxAmount))
	}
}
