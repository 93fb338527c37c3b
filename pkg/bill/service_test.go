package bill

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
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 10, 8, 0, 0, 0, time.UTC)}
	return context.Background(), db, NewService(NewRepository(db), clock), clock, test_utils.NewFixture(t, db)
}

func day(m time.Month, d int) time.Time {
	return time.Date(2025, m, d, 0, 0, 0, 0, time.UTC)
}

func newBill(f test_utils.Fixture, amount int64, due time.Time) Bill {
	return Bill{FamilyId: f.FamilyId, CategoryId: test_utils.Ptr(f.ExpenseCategoryId), Amount: decimal.NewFromInt(amount), DueDate: due}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should default to a pending one-off bill", func(t *testing.T) {
		ctx, _, service, _, f := setup(t)

		created, err := service.Create(ctx, newBill(f, 15000, day(7, 20)))

		require.NoError(t, err)
		assert.Equal(t, Once, created.Frequency)
		assert.Equal(t, Pending, created.Status)
		stored, err := service.GetById(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, created.DueDate, stored.DueDate)
		assert.Equal(t, created.CreatedAt, stored.CreatedAt)
		assert.Equal(t, *created.CategoryId, *stored.CategoryId)
		assert.True(t, created.Amount.Equal(stored.Amount))
	})

	t.Run("should reject an unknown frequency", func(t *testing.T) {
		ctx, _, service, _, f := setup(t)
		input := newBill(f, 100, day(7, 20))
		input.Frequency = "daily"

		_, err := service.Create(ctx, input)

		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	ctx, _, service, _, f := setup(t)
	input := newBill(f, 15000, day(7, 20))
	input.Description = test_utils.Ptr("electricity")
	created, err := service.Create(ctx, input)
	require.NoError(t, err)

	t.Run("should clear the category and keep the description", func(t *testing.T) {
		updated, err := service.Update(ctx, created.Id, Patch{CategoryId: patch.Null[int](), Amount: patch.Set(decimal.NewFromInt(17500))})

		require.NoError(t, err)
		assert.Nil(t, updated.CategoryId)
		assert.Equal(t, "electricity", *updated.Description)
		assert.Equal(t, "17500", updated.Amount.String())
		assert.Equal(t, day(7, 20), updated.DueDate)
	})

	t.Run("should refuse to clear the due date", func(t *testing.T) {
		_, err := service.Update(ctx, created.Id, Patch{DueDate: patch.Null[time.Time]()})

		assert.ErrorIs(t, err, ErrMissingField)
	})
}

func TestServiceImpl_CheckOverdue(t *testing.T) {
	// given
	ctx, db, service, _, f := setup(t)
	late, err := service.Create(ctx, newBill(f, 100, day(7, 1)))
	require.NoError(t, err)
	_, err = service.Create(ctx, newBill(f, 100, day(7, 10)))
	require.NoError(t, err)
	paid := newBill(f, 100, day(6, 1))
	paid.Status = Paid
	_, err = service.Create(ctx, paid)
	require.NoError(t, err)

	// when
	count, err := service.CheckOverdue(ctx)

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	stored, err := service.GetById(ctx, late.Id)
	require.NoError(t, err)
	assert.Equal(t, Overdue, stored.Status)
	assert.Equal(t, 1, test_utils.Count(t, db, "bills", "status = 'pending'"))

	again, err := service.CheckOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestServiceImpl_MarkPaid(t *testing.T) {
	t.Run("should schedule the next occurrence of a recurring bill", func(t *testing.T) {
		ctx, db, service, _, f := setup(t)
		input := newBill(f, 25000, day(1, 31))
		input.Frequency = Monthly
		created, err := service.Create(ctx, input)
		require.NoError(t, err)

		payment, err := service.MarkPaid(ctx, created.Id)

		require.NoError(t, err)
		assert.Equal(t, Paid, payment.Paid.Status)
		require.NotNil(t, payment.Next)
		assert.Equal(t, day(2, 28), payment.Next.DueDate)
		next, err := service.GetById(ctx, payment.Next.Id)
		require.NoError(t, err)
		assert.Equal(t, Pending, next.Status)
		assert.Equal(t, Monthly, next.Frequency)
		assert.Equal(t, 2, test_utils.Count(t, db, "bills", ""))
	})

	t.Run("should not schedule anything for a one-off or already paid bill", func(t *testing.T) {
		ctx, db, service, _, f := setup(t)
		once, err := service.Create(ctx, newBill(f, 100, day(7, 1)))
		require.NoError(t, err)
		recurring := newBill(f, 100, day(7, 1))
		recurring.Frequency = Weekly
		recurring.Status = Paid
		alreadyPaid, err := service.Create(ctx, recurring)
		require.NoError(t, err)

		first, err := service.MarkPaid(ctx, once.Id)
		require.NoError(t, err)
		second, err := service.MarkPaid(ctx, alreadyPaid.Id)
		require.NoError(t, err)

		assert.Nil(t, first.Next)
		assert.Nil(t, second.Next)
		assert.Equal(t, 2, test_utils.Count(t, db, "bills", ""))
	})

	t.Run("should return nil for a missing bill", func(t *testing.T) {
		ctx, _, service, _, _ := setup(t)

		payment, err := service.MarkPaid(ctx, 404)

		require.NoError(t, err)
		assert.Nil(t, payment)
	})
}

func TestServiceImpl_ListUpcoming(t *testing.T) {
	ctx, _, service, _, f := setup(t)
	for _, due := range []time.Time{day(7, 9), day(7, 17), day(7, 10), day(7, 18)} {
		_, err := service.Create(ctx, newBill(f, 100, due))
		require.NoError(t, err)
	}

	bills, err := service.ListUpcoming(ctx, f.FamilyId, 7)

	require.NoError(t, err)
	require.Len(t, bills, 2)
	assert.Equal(t, day(7, 10), bills[0].DueDate)
	assert.Equal(t, day(7, 17), bills[1].DueDate)
}
