package income

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, *sql.DB, *ServiceImpl, *utils.MockClock, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 25, 8, 0, 0, 0, time.UTC)}
	return context.Background(), db, NewService(NewRepository(db), clock), clock, test_utils.NewFixture(t, db)
}

func salary(f test_utils.Fixture, amount int64, d int) Income {
	return Income{CategoryId: f.IncomeCategoryId, UserId: f.UserId, AccountId: f.AccountId, FamilyId: f.FamilyId,
		Amount: decimal.NewFromInt(amount), Date: time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC), Source: "employer"}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should record the backing transaction", func(t *testing.T) {
		ctx, db, service, _, f := setup(t)

		created, err := service.Create(ctx, salary(f, 450000, 25))

		require.NoError(t, err)
		assert.NotZero(t, created.TransactionId)
		assert.Equal(t, 1, test_utils.Count(t, db, "transactions",
			"id = ? AND type = 'income' AND account_id = ? AND category_id = ? AND amount = 450000",
			created.TransactionId, f.AccountId, f.IncomeCategoryId))
		stored, err := service.GetById(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, created.TransactionId, stored.TransactionId)
		assert.Equal(t, "employer", stored.Source)
		assert.Equal(t, transaction.Valid, stored.Status)
	})

	t.Run("should reuse a given transaction", func(t *testing.T) {
		ctx, db, service, _, f := setup(t)
		transactionId := test_utils.InsertTransaction(t, db, f.AccountId, f.UserId, &f.IncomeCategoryId)
		input := salary(f, 1000, 1)
		input.TransactionId = transactionId

		created, err := service.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, transactionId, created.TransactionId)
		assert.Equal(t, 1, test_utils.Count(t, db, "transactions", ""))
	})

	t.Run("should leave no transaction behind when the income fails", func(t *testing.T) {
		ctx, db, service, _, f := setup(t)
		input := salary(f, 1000, 1)
		input.FamilyId = 999

		_, err := service.Create(ctx, input)

		assert.True(t, errors.Is(err, failure.ErrOperationFailed))
		assert.Zero(t, test_utils.Count(t, db, "transactions", ""))
	})

	t.Run("should require a source", func(t *testing.T) {
		ctx, _, service, _, f := setup(t)
		input := salary(f, 1000, 1)
		input.Source = ""

		_, err := service.Create(ctx, input)

		assert.ErrorIs(t, err, ErrSourceRequired)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	ctx, _, service, clock, f := setup(t)
	created, err := service.Create(ctx, salary(f, 1000, 1))
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)

	updated, err := service.Update(ctx, created.Id, Patch{Amount: patch.Set(decimal.NewFromInt(1200)), Description: patch.Set("bonus")})

	require.NoError(t, err)
	assert.Equal(t, "1200", updated.Amount.String())
	assert.Equal(t, "bonus", *updated.Description)
	assert.Equal(t, "employer", updated.Source)
	assert.Equal(t, clock.Now(), updated.ModifiedAt)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestServiceImpl_Total(t *testing.T) {
	ctx, _, service, _, f := setup(t)
	for _, in := range []Income{salary(f, 1000, 1), salary(f, 2000, 15), salary(f, 4000, 31)} {
		_, err := service.Create(ctx, in)
		require.NoError(t, err)
	}
	pending := salary(f, 8000, 10)
	pending.Status = transaction.Pending
	_, err := service.Create(ctx, pending)
	require.NoError(t, err)

	total, err := service.Total(ctx, f.FamilyId, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	listed, err := service.ListByFamily(ctx, f.FamilyId, Filter{AccountId: &f.AccountId})
	require.NoError(t, err)

	assert.Equal(t, "3000", total.String())
	require.Len(t, listed, 4)
	assert.Equal(t, 31, listed[0].Date.Day())
}
