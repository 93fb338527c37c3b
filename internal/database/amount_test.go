package database

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{
		{"whole", "3200000", 32000000000},
		{"cents", "3200000.50", 32000000005},
		{"negative", "-12.3456", -123456},
		{"rounded past the scale", "0.00005", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Amount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestScanAmount(t *testing.T) {
	t.Run("should read INTEGER units back as decimals", func(t *testing.T) {
		var d decimal.Decimal

		require.NoError(t, ScanAmount(&d).Scan(int64(32000000005)))

		assert.Equal(t, "3200000.5", d.String())
	})

	t.Run("should read NULL as zero", func(t *testing.T) {
		d := decimal.NewFromInt(7)

		require.NoError(t, ScanAmount(&d).Scan(nil))

		assert.True(t, d.IsZero())
	})

	t.Run("should refuse a REAL value", func(t *testing.T) {
		var d decimal.Decimal

		assert.Error(t, ScanAmount(&d).Scan(0.1))
	})
}

func TestAmount_SumsExactly(t *testing.T) {
	// given
	ctx := context.Background()
	db := openMemory(t)
	require.NoError(t, Migrate(ctx, db))
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash) VALUES (1, 'Awa', 'awa@example.com', 'x');
		INSERT INTO families (id, name, owner_user_id) VALUES (1, 'Diallo', 1);
		INSERT INTO categories (id, family_id, name, type) VALUES (1, 1, 'Food', 'expense');`)
	require.NoError(t, err)
	tenth := decimal.RequireFromString("0.10")
	for i := 0; i < 10; i++ {
		_, err := db.ExecContext(ctx, `INSERT INTO expenses (category_id, user_id, family_id, amount, date) VALUES (1, 1, 1, ?, '2025-07-01')`,
			Amount(tenth))
		require.NoError(t, err)
	}

	// when
	var total decimal.Decimal
	err = db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE amount >= ?`, Amount(tenth)).
		Scan(ScanAmount(&total))

	// then
	require.NoError(t, err)
	assert.Equal(t, "1", total.String())
}
