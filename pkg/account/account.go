package account

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Type string

const (
	Checking    Type = "checking"
	Savings     Type = "savings"
	Cash        Type = "cash"
	CreditCard  Type = "credit_card"
	MobileMoney Type = "mobile_money"
	Investment  Type = "investment"
)

func (t Type) Valid() bool {
	switch t {
	case Checking, Savings, Cash, CreditCard, MobileMoney, Investment:
		return true
	}
	return false
}

const DefaultCurrency = "XOF"

type Account struct {
	Id        int             `json:"id"`
	FamilyId  int             `json:"familyId"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Type      Type            `json:"type"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Patch struct {
	Name     patch.Field[string]          `json:"name"`
	Balance  patch.Field[decimal.Decimal] `json:"balance"`
	Type     patch.Field[Type]            `json:"type"`
	Currency patch.Field[string]          `json:"currency"`
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.Append(list, "name", p.Name)
	list = patch.AppendWith(list, "balance", p.Balance, database.Amount)
	list = patch.AppendWith(list, "type", p.Type, func(t Type) any { return string(t) })
	list = patch.Append(list, "currency", p.Currency)
	return list
}

type Filter struct {
	Type     *Type
	Currency *string
}

// Balance is the summed balance of a family's accounts in one currency.
type Balance struct {
	Currency string          `json:"currency"`
	Total    decimal.Decimal `json:"total"`
	Accounts int             `json:"accounts"`
}
