package stats

import (
	"testing"

	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/gestfin/gestfin/pkg/expense"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStatsRendererImpl_RenderSummary(t *testing.T) {
	// given
	shared := budget.NewUsage(budget.Budget{Id: 3, Amount: decimal.NewFromInt(20000), UserName: test_utils.Ptr("Awa")}, decimal.NewFromInt(5000))
	summary := MonthlySummary{
		Month:    7,
		Year:     2025,
		Income:   decimal.NewFromInt(500000),
		Expenses: decimal.NewFromInt(125000),
		Net:      decimal.NewFromInt(375000),
		Categories: []expense.CategoryTotal{
			{CategoryId: 1, CategoryName: "Food", Total: decimal.NewFromInt(120000), Count: 6},
			{CategoryId: 2, CategoryName: "Gifts, family", Total: decimal.NewFromInt(5000), Count: 1},
		},
		Budgets:        []budget.Usage{usage(1, "Food", 100000, 120000), shared},
		TotalBudgeted:  decimal.NewFromInt(120000),
		TotalRemaining: decimal.NewFromInt(-5000),
	}

	// when
	csv, err := NewCsvStatsRenderer().RenderSummary(summary)

	// then
	require.NoError(t, err)
	assert.Equal(t, "Budget,Planned,Spent,Remaining,Used %\n"+
		"Food,100000,120000,-20000,120\n"+
		"All categories (Awa),20000,5000,15000,25\n"+
		"SUM,120000,125000,-5000,\n"+
		"Category,Expenses,Count\n"+
		"Food,120000,6\n"+
		"\"Gifts, family\",5000,1\n"+
		"Income,500000\n"+
		"Expenses,125000\n"+
		"Net,375000\n"+
		"Savings rate %,75\n", csv)
}
