package income

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/shopspring/decimal"
)

// Income shares the status set of the transaction backing it.
type Income struct {
	Id            int                `json:"id"`
	TransactionId int                `json:"transactionId"`
	CategoryId    int                `json:"categoryId"`
	UserId        int                `json:"userId"`
	AccountId     int                `json:"accountId"`
	FamilyId      int                `json:"familyId"`
	Amount        decimal.Decimal    `json:"amount"`
	Date          time.Time          `json:"date"`
	Source        string             `json:"source"`
	Description   *string            `json:"description"`
	Status        transaction.Status `json:"status"`
	CreatedAt     time.Time          `json:"createdAt"`
	ModifiedAt    time.Time          `json:"modifiedAt"`
}

type Patch struct {
	CategoryId  patch.Field[int]                `json:"categoryId"`
	AccountId   patch.Field[int]                `json:"accountId"`
	Amount      patch.Field[decimal.Decimal]    `json:"amount"`
	Date        patch.Field[time.Time]          `json:"date"`
	Source      patch.Field[string]             `json:"source"`
	Description patch.Field[string]             `json:"description"`
	Status      patch.Field[transaction.Status] `json:"status"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "category_id", p.CategoryId)
	list = patch.Append(list, "account_id", p.AccountId)
	list = patch.AppendWith(list, "amount", p.Amount, database.Amount)
	list = patch.AppendWith(list, "date", p.Date, func(t time.Time) any { return database.FormatDate(t) })
	list = patch.Append(list, "source", p.Source)
	list = patch.Append(list, "description", p.Description)
	list = patch.AppendWith(list, "status", p.Status, func(s transaction.Status) any { return string(s) })
	return list
}

type Filter struct {
	Status     *transaction.Status
	CategoryId *int
	UserId     *int
	AccountId  *int
	From       *time.Time
	To         *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

func (f Filter) conditions(c *database.Conditions) {
	if f.Status != nil {
		c.Add("status = ?", string(*f.Status))
	}
	if f.CategoryId != nil {
		c.Add("category_id = ?", *f.CategoryId)
	}
	if f.UserId != nil {
		c.Add("user_id = ?", *f.UserId)
	}
	if f.AccountId != nil {
		c.Add("account_id = ?", *f.AccountId)
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
