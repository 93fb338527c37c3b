package expense

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

func setup(t *testing.T) (context.Context, *sql.DB, *ServiceImpl, *utils.MockClock, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC)}
	return context.Background(), db, NewService(NewRepository(db), clock), clock, test_utils.NewFixture(t, db)
}

func newExpense(f test_utils.Fixture, amount int64, date time.Time) Expense {
	return Expense{CategoryId: f.ExpenseCategoryId, UserId: f.UserId, FamilyId: f.FamilyId,
		Amount: decimal.NewFromInt(amount), Date: date}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should stamp created and modified", func(t *testing.T) {
		ctx, _, service, clock, f := setup(t)

		created, err := service.Create(ctx, newExpense(f, 2500, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)))

		require.NoError(t, err)
		stored, err := service.GetById(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, created.Date, stored.Date)
		assert.Equal(t, created.CreatedAt, stored.CreatedAt)
		assert.True(t, created.Amount.Equal(stored.Amount))
		assert.Equal(t, clock.Now(), stored.ModifiedAt)
		assert.Equal(t, Valid, stored.Status)
	})

	t.Run("should reject a negative amount", func(t *testing.T) {
		ctx, _, service, _, f := setup(t)

		_, err := service.Create(ctx, newExpense(f, -1, time.Now()))

		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should move modified-at and leave absent fields", func(t *testing.T) {
		// given
		ctx, _, service, clock, f := setup(t)
		input := newExpense(f, 2500, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC))
		input.Description = test_utils.Ptr("rice")
		created, err := service.Create(ctx, input)
		require.NoError(t, err)
		clock.Advance(time.Hour)

		// when
		updated, err := service.Update(ctx, created.Id, Patch{Status: patch.Set(Refunded), Description: patch.Null[string]()})

		// then
		require.NoError(t, err)
		assert.Equal(t, Refunded, updated.Status)
		assert.Nil(t, updated.Description)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, created.CreatedAt.Add(time.Hour), updated.ModifiedAt)
		assert.True(t, created.Amount.Equal(updated.Amount))
		assert.Equal(t, created.Date, updated.Date)
	})

	t.Run("empty patch leaves modified-at alone", func(t *testing.T) {
		ctx, _, service, clock, f := setup(t)
		created, err := service.Create(ctx, newExpense(f, 100, time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, err)
		clock.Advance(time.Hour)

		current, err := service.Update(ctx, created.Id, Patch{})

		require.NoError(t, err)
		assert.Equal(t, created.ModifiedAt, current.ModifiedAt)
	})
}

func TestServiceImpl_ListByFamily(t *testing.T) {
	ctx, db, service, _, f := setup(t)
	rentId := test_utils.InsertCategory(t, db, f.FamilyId, "Rent", "expense")
	_, err := service.Create(ctx, newExpense(f, 1000, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	rent := newExpense(f, 150000, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC))
	rent.CategoryId = rentId
	_, err = service.Create(ctx, rent)
	require.NoError(t, err)
	cancelled := newExpense(f, 3000, time.Date(2025, 6, 28, 0, 0, 0, 0, time.UTC))
	cancelled.Status = Cancelled
	_, err = service.Create(ctx, cancelled)
	require.NoError(t, err)

	all, err := service.ListByFamily(ctx, f.FamilyId, Filter{})
	require.NoError(t, err)
	maxAmount := decimal.NewFromInt(5000)
	valid := Valid
	small, err := service.ListByFamily(ctx, f.FamilyId, Filter{Status: &valid, MaxAmount: &maxAmount})
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, rentId, all[0].CategoryId)
	require.Len(t, small, 1)
	assert.Equal(t, "1000", small[0].Amount.String())
}

func TestServiceImpl_TotalByCategory(t *testing.T) {
	ctx, db, service, _, f := setup(t)
	test_utils.InsertExpense(t, db, f, 1000, "2025-07-01")
	test_utils.InsertExpense(t, db, f, 1500, "2025-07-31")
	test_utils.InsertExpense(t, db, f, 9999, "2025-08-01")
	_, err := db.ExecContext(ctx, `INSERT INTO expenses (category_id, user_id, family_id, amount, date, status) VALUES (?, ?, ?, 500, '2025-07-15', 'pending')`,
		f.ExpenseCategoryId, f.UserId, f.FamilyId)
	require.NoError(t, err)

	totals, err := service.TotalByCategory(ctx, f.FamilyId, 7, 2025)
	require.NoError(t, err)
	_, invalid := service.TotalByCategory(ctx, f.FamilyId, 13, 2025)

	require.Len(t, totals, 1)
	assert.Equal(t, "Food", totals[0].CategoryName)
	assert.Equal(t, "2500", totals[0].Total.String())
	assert.Equal(t, 2, totals[0].Count)
	assert.ErrorIs(t, invalid, ErrInvalidPeriod)
}
