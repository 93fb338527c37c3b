package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, *ServiceImpl, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)}
	return context.Background(), NewService(NewRepository(db), clock), test_utils.NewFixture(t, db)
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should return the input with id and defaults", func(t *testing.T) {
		ctx, service, f := setup(t)
		input := Transaction{AccountId: f.AccountId, CategoryId: &f.ExpenseCategoryId, UserId: f.UserId,
			Amount: decimal.NewFromInt(4500), Date: day(3), Description: test_utils.Ptr("market"), Type: Expense}

		created, err := service.Create(ctx, input)

		require.NoError(t, err)
		stored, err := service.GetById(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, Valid, created.Status)
		assert.Equal(t, input.Date, stored.Date)
		assert.Equal(t, *input.CategoryId, *stored.CategoryId)
		assert.Equal(t, "market", *stored.Description)
		assert.True(t, input.Amount.Equal(stored.Amount))
		assert.Equal(t, created.CreatedAt, stored.CreatedAt)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		ctx, service, f := setup(t)

		_, err := service.Create(ctx, Transaction{AccountId: f.AccountId, UserId: f.UserId, Date: day(1), Type: "gift"})

		assert.ErrorIs(t, err, ErrInvalidType)
	})
}

func TestServiceImpl_ListByAccount(t *testing.T) {
	ctx, service, f := setup(t)
	for i, amount := range []int64{1000, 5000, 20000} {
		_, err := service.Create(ctx, Transaction{AccountId: f.AccountId, UserId: f.UserId, Amount: decimal.NewFromInt(amount),
			Date: day(i + 1), Type: Expense, CategoryId: &f.ExpenseCategoryId})
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, Transaction{AccountId: f.AccountId, UserId: f.UserId, Amount: decimal.NewFromInt(300000),
		Date: day(5), Type: Income, Status: Pending})
	require.NoError(t, err)

	t.Run("should order by date descending", func(t *testing.T) {
		all, err := service.ListByAccount(ctx, f.AccountId, Filter{})

		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, day(5), all[0].Date)
		assert.Equal(t, day(1), all[3].Date)
	})

	t.Run("should combine filters with and", func(t *testing.T) {
		expense := Expense
		minAmount := decimal.NewFromInt(2000)
		from := day(1)
		to := day(3)

		filtered, err := service.ListByAccount(ctx, f.AccountId, Filter{Type: &expense, MinAmount: &minAmount, From: &from, To: &to})

		require.NoError(t, err)
		require.Len(t, filtered, 2)
		assert.Equal(t, "20000", filtered[0].Amount.String())
		assert.Equal(t, "5000", filtered[1].Amount.String())
	})

	t.Run("should filter by status and category", func(t *testing.T) {
		pending := Pending

		byStatus, err := service.ListByUser(ctx, f.UserId, Filter{Status: &pending})
		require.NoError(t, err)
		byCategory, err := service.ListByUser(ctx, f.UserId, Filter{CategoryId: &f.ExpenseCategoryId})
		require.NoError(t, err)

		assert.Len(t, byStatus, 1)
		assert.Len(t, byCategory, 3)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("null clears the category, absent keeps the description", func(t *testing.T) {
		// given
		ctx, service, f := setup(t)
		created, err := service.Create(ctx, Transaction{AccountId: f.AccountId, CategoryId: &f.ExpenseCategoryId, UserId: f.UserId,
			Amount: decimal.NewFromInt(100), Date: day(1), Description: test_utils.Ptr("bread"), Type: Expense})
		require.NoError(t, err)

		// when
		updated, err := service.Update(ctx, created.Id, Patch{CategoryId: patch.Null[int](), Status: patch.Set(Cancelled)})

		// then
		require.NoError(t, err)
		assert.Nil(t, updated.CategoryId)
		assert.Equal(t, Cancelled, updated.Status)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "bread", *updated.Description)
		assert.Equal(t, "100", updated.Amount.String())
	})

	t.Run("should refuse to null a required column", func(t *testing.T) {
		ctx, service, _ := setup(t)

		_, err := service.Update(ctx, 1, Patch{Amount: patch.Null[decimal.Decimal]()})

		assert.ErrorIs(t, err, ErrMissingField)
	})
}
