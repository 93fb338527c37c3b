package investment

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
)

type Type string

const (
	Stocks     Type = "stocks"
	Bonds      Type = "bonds"
	RealEstate Type = "real_estate"
	Crypto     Type = "crypto"
	MutualFund Type = "mutual_fund"
	Savings    Type = "savings"
	Other      Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case Stocks, Bonds, RealEstate, Crypto, MutualFund, Savings, Other:
		return true
	}
	return false
}

type Investment struct {
	Id             int             `json:"id"`
	FamilyId       int             `json:"familyId"`
	Type           Type            `json:"type"`
	Name           string          `json:"name"`
	InvestedAmount decimal.Decimal `json:"investedAmount"`
	CurrentValue   decimal.Decimal `json:"currentValue"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	SaleDate       *time.Time      `json:"saleDate"`
	ReturnRate     decimal.Decimal `json:"returnRate"`
	Description    *string         `json:"description"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (i Investment) Sold() bool {
	return i.SaleDate != nil
}

func (i Investment) Gain() decimal.Decimal {
	return i.CurrentValue.Sub(i.InvestedAmount)
}

// ReturnRate is the gain over the invested amount in percent, rounded to
// two places. Nothing invested yields zero.
func ReturnRate(invested, current decimal.Decimal) decimal.Decimal {
	if invested.IsZero() {
		return decimal.Zero
	}
	return current.Sub(invested).Div(invested).Mul(decimal.NewFromInt(100)).Round(2)
}

type Patch struct {
	Type           patch.Field[Type]            `json:"type"`
	Name           patch.Field[string]          `json:"name"`
	InvestedAmount patch.Field[decimal.Decimal] `json:"investedAmount"`
	CurrentValue   patch.Field[decimal.Decimal] `json:"currentValue"`
	PurchaseDate   patch.Field[time.Time]       `json:"purchaseDate"`
	SaleDate       patch.Field[time.Time]       `json:"saleDate"`
	ReturnRate     patch.Field[decimal.Decimal] `json:"returnRate"`
	Description    patch.Field[string]          `json:"description"`
}

func (p Patch) Assignments() []patch.Assignment {
	date := func(t time.Time) any { return database.FormatDate(t) }
	var list []patch.Assignment
	list = patch.AppendWith(list, "type", p.Type, func(t Type) any { return string(t) })
	list = patch.Append(list, "name", p.Name)
	list = patch.AppendWith(list, "invested_amount", p.InvestedAmount, database.Amount)
	list = patch.AppendWith(list, "current_value", p.CurrentValue, database.Amount)
	list = patch.AppendWith(list, "purchase_date", p.PurchaseDate, date)
	list = patch.AppendWith(list, "sale_date", p.SaleDate, date)
	list = patch.AppendWith(list, "return_rate", p.ReturnRate, database.Amount)
	list = patch.Append(list, "description", p.Description)
	return list
}

type Filter struct {
	Type *Type
	Sold *bool
}

// TypeTotal sums the held investments of one type.
type TypeTotal struct {
	Type        Type            `json:"type"`
	Invested    decimal.Decimal `json:"invested"`
	Current     decimal.Decimal `json:"current"`
	Investments int             `json:"investments"`
	ReturnRate  decimal.Decimal `json:"returnRate"`
}

// Portfolio sums the held, unsold investments of a family.
type Portfolio struct {
	Invested   decimal.Decimal `json:"invested"`
	Current    decimal.Decimal `json:"current"`
	Gain       decimal.Decimal `json:"gain"`
	ReturnRate decimal.Decimal `json:"returnRate"`
	ByType     []TypeTotal     `json:"byType"`
}

func NewPortfolio(byType []TypeTotal) Portfolio {
	portfolio := Portfolio{Invested: decimal.Zero, Current: decimal.Zero, ByType: byType}
	for i, total := range byType {
		byType[i].ReturnRate = ReturnRate(total.Invested, total.Current)
		portfolio.Invested = portfolio.Invested.Add(total.Invested)
		portfolio.Current = portfolio.Current.Add(total.Current)
	}
	portfolio.Gain = portfolio.Current.Sub(portfolio.Invested)
	portfolio.ReturnRate = ReturnRate(portfolio.Invested, portfolio.Current)
	return portfolio
}
