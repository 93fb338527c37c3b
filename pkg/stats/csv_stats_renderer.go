package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/gestfin/gestfin/pkg/budget"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type StatsRenderer interface {
	RenderSummary(summary MonthlySummary) (string, error)
}

type CsvStatsRendererImpl struct {
}

func NewCsvStatsRenderer() *CsvStatsRendererImpl {
	return &CsvStatsRendererImpl{}
}

// RenderSummary writes the budgets table, the expenses by category table and
// the month totals, one after the other.
func (t *CsvStatsRendererImpl) RenderSummary(summary MonthlySummary) (string, error) {
	data := make([][]string, 0, len(summary.Budgets)+len(summary.Categories)+8)

	data = append(data, []string{"Budget", "Planned", "Spent", "Remaining", "Used %"})
	totalSpent := decimal.Zero
	for _, usage := range summary.Budgets {
		data = append(data, []string{
			budgetName(usage.Budget),
			usage.Budget.Amount.String(),
			usage.Spent.String(),
			usage.Remaining.String(),
			usage.PercentUsed.String(),
		})
		totalSpent = totalSpent.Add(usage.Spent)
	}
	data = append(data, []string{"SUM", summary.TotalBudgeted.String(), totalSpent.String(), summary.TotalRemaining.String(), ""})

	data = append(data, []string{"Category", "Expenses", "Count"})
	for _, c := range summary.Categories {
		data = append(data, []string{c.CategoryName, c.Total.String(), strconv.Itoa(c.Count)})
	}

	data = append(data,
		[]string{"Income", summary.Income.String()},
		[]string{"Expenses", summary.Expenses.String()},
		[]string{"Net", summary.Net.String()},
		[]string{"Savings rate %", summary.SavingsRate().String()},
	)

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func budgetName(b budget.Budget) string {
	name := "All categories"
	if b.CategoryName != nil {
		name = *b.CategoryName
	}
	if b.UserName != nil {
		name += " (" + *b.UserName + ")"
	}
	return name
}
