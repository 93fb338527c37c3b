package account

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, *sql.DB, *ServiceImpl, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)}
	return context.Background(), db, NewService(NewRepository(db), clock), test_utils.NewFixture(t, db)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should default the currency and round trip", func(t *testing.T) {
		ctx, _, service, f := setup(t)

		created, err := service.Create(ctx, Account{FamilyId: f.FamilyId, Name: "Orange Money", Type: MobileMoney,
			Balance: decimal.NewFromInt(75000)})

		require.NoError(t, err)
		assert.Equal(t, DefaultCurrency, created.Currency)
		stored, err := service.GetById(ctx, created.Id)
		require.NoError(t, err)
		assert.True(t, created.Balance.Equal(stored.Balance))
		assert.Equal(t, created.CreatedAt, stored.CreatedAt)
		assert.Equal(t, MobileMoney, stored.Type)
	})

	t.Run("should reject a duplicate name", func(t *testing.T) {
		ctx, _, service, f := setup(t)

		_, err := service.Create(ctx, Account{FamilyId: f.FamilyId, Name: "Main", Type: Cash})

		assert.ErrorIs(t, err, ErrAccountExists)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		ctx, _, service, f := setup(t)

		_, err := service.Create(ctx, Account{FamilyId: f.FamilyId, Name: "Piggy", Type: "jar"})

		assert.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	ctx, _, service, f := setup(t)

	updated, err := service.Update(ctx, f.AccountId, Patch{Balance: patch.Set(decimal.RequireFromString("1250.50"))})

	require.NoError(t, err)
	assert.Equal(t, "1250.5", updated.Balance.String())
	assert.Equal(t, "Main", updated.Name)
	assert.Equal(t, Checking, updated.Type)
}

func TestServiceImpl_TotalBalance(t *testing.T) {
	ctx, _, service, f := setup(t)
	for _, a := range []Account{
		{FamilyId: f.FamilyId, Name: "Wave", Type: MobileMoney, Balance: decimal.NewFromInt(20000)},
		{FamilyId: f.FamilyId, Name: "Cash", Type: Cash, Balance: decimal.NewFromInt(5000)},
		{FamilyId: f.FamilyId, Name: "Euro", Type: Savings, Balance: decimal.NewFromInt(300), Currency: "EUR"},
	} {
		_, err := service.Create(ctx, a)
		require.NoError(t, err)
	}

	balances, err := service.TotalBalance(ctx, f.FamilyId)

	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, "EUR", balances[0].Currency)
	assert.Equal(t, "300", balances[0].Total.String())
	assert.Equal(t, "XOF", balances[1].Currency)
	assert.Equal(t, "25000", balances[1].Total.String())
	assert.Equal(t, 3, balances[1].Accounts)
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should refuse an account with income", func(t *testing.T) {
		// given
		ctx, db, service, f := setup(t)
		other, err := service.Create(ctx, Account{FamilyId: f.FamilyId, Name: "Savings", Type: Savings})
		require.NoError(t, err)
		transactionId := test_utils.InsertTransaction(t, db, f.AccountId, f.UserId, &f.IncomeCategoryId)
		_, err = db.ExecContext(ctx, `INSERT INTO incomes (transaction_id, category_id, user_id, account_id, family_id, amount, date, source)
			VALUES (?, ?, ?, ?, ?, 1000, '2025-07-01', 'salary')`, transactionId, f.IncomeCategoryId, f.UserId, other.Id, f.FamilyId)
		require.NoError(t, err)

		// when
		ok, err := service.Delete(ctx, other.Id)

		// then
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrAccountInUse)
	})

	t.Run("should delete the account with its transactions", func(t *testing.T) {
		ctx, db, service, f := setup(t)
		test_utils.InsertTransaction(t, db, f.AccountId, f.UserId, nil)

		ok, err := service.Delete(ctx, f.AccountId)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Zero(t, test_utils.Count(t, db, "transactions", ""))
	})
}
