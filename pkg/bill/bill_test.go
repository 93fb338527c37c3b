package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrequency_Next(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		name      string
		frequency Frequency
		due       time.Time
		want      time.Time
		recurring bool
	}{
		{name: "once", frequency: Once, due: day(2025, 1, 31), recurring: false},
		{name: "weekly", frequency: Weekly, due: day(2025, 12, 29), want: day(2026, 1, 5), recurring: true},
		{name: "monthly", frequency: Monthly, due: day(2025, 3, 15), want: day(2025, 4, 15), recurring: true},
		{name: "monthly from a long month", frequency: Monthly, due: day(2025, 1, 31), want: day(2025, 2, 28), recurring: true},
		{name: "quarterly", frequency: Quarterly, due: day(2025, 11, 30), want: day(2026, 2, 28), recurring: true},
		{name: "yearly from leap day", frequency: Yearly, due: day(2024, 2, 29), want: day(2025, 2, 28), recurring: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, recurring := tt.frequency.Next(tt.due)

			assert.Equal(t, tt.recurring, recurring)
			assert.Equal(t, tt.want, got)
		})
	}
}
