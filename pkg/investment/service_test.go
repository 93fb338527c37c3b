package investment

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
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)}
	return context.Background(), NewService(NewRepository(db), clock), test_utils.NewFixture(t, db)
}

func newInvestment(f test_utils.Fixture, investmentType Type, invested, current int64) Investment {
	return Investment{
		FamilyId:       f.FamilyId,
		Type:           investmentType,
		Name:           "BRVM " + string(investmentType),
		InvestedAmount: decimal.NewFromInt(invested),
		CurrentValue:   decimal.NewFromInt(current),
		PurchaseDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	ctx, service, f := setup(t)

	created, err := service.Create(ctx, newInvestment(f, Stocks, 1000000, 1100000))

	require.NoError(t, err)
	assert.Equal(t, "10", created.ReturnRate.String())
	stored, err := service.GetById(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, stored.ReturnRate.Equal(created.ReturnRate))
	assert.Equal(t, created.PurchaseDate, stored.PurchaseDate)
	assert.Nil(t, stored.SaleDate)
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should recompute the return rate from the new value", func(t *testing.T) {
		ctx, service, f := setup(t)
		created, err := service.Create(ctx, newInvestment(f, Stocks, 1000000, 1100000))
		require.NoError(t, err)

		updated, err := service.UpdateValue(ctx, created.Id, decimal.NewFromInt(800000))

		require.NoError(t, err)
		assert.Equal(t, "-20", updated.ReturnRate.String())
		assert.Equal(t, "1000000", updated.InvestedAmount.String())
	})

	t.Run("should recompute from a new invested amount", func(t *testing.T) {
		ctx, service, f := setup(t)
		created, err := service.Create(ctx, newInvestment(f, Bonds, 1000000, 1100000))
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.Id, Patch{InvestedAmount: patch.Set(decimal.NewFromInt(550000))})

		require.NoError(t, err)
		assert.Equal(t, "100", updated.ReturnRate.String())
	})

	t.Run("should respect an explicit return rate", func(t *testing.T) {
		ctx, service, f := setup(t)
		created, err := service.Create(ctx, newInvestment(f, RealEstate, 1000000, 1100000))
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.Id, Patch{
			CurrentValue: patch.Set(decimal.NewFromInt(2000000)),
			ReturnRate:   patch.Set(decimal.NewFromFloat(7.5)),
		})

		require.NoError(t, err)
		assert.Equal(t, "7.5", updated.ReturnRate.String())
		assert.Equal(t, "2000000", updated.CurrentValue.String())
	})

	t.Run("should leave the rate alone when only the name changes", func(t *testing.T) {
		ctx, service, f := setup(t)
		created, err := service.Create(ctx, newInvestment(f, Crypto, 1000, 1500))
		require.NoError(t, err)

		updated, err := service.Update(ctx, created.Id, Patch{Name: patch.Set("Bitcoin")})

		require.NoError(t, err)
		assert.Equal(t, "50", updated.ReturnRate.String())
		assert.Equal(t, "Bitcoin", updated.Name)
	})
}

func TestServiceImpl_Sell(t *testing.T) {
	ctx, service, f := setup(t)
	created, err := service.Create(ctx, newInvestment(f, MutualFund, 200000, 200000))
	require.NoError(t, err)

	sold, err := service.Sell(ctx, created.Id, decimal.NewFromInt(260000), time.Time{})

	require.NoError(t, err)
	require.NotNil(t, sold.SaleDate)
	assert.Equal(t, time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), *sold.SaleDate)
	assert.Equal(t, "30", sold.ReturnRate.String())

	_, err = service.Sell(ctx, created.Id, decimal.NewFromInt(1), time.Time{})
	assert.ErrorIs(t, err, ErrAlreadySold)

	missing, err := service.Sell(ctx, created.Id+1, decimal.NewFromInt(1), time.Time{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestServiceImpl_Portfolio(t *testing.T) {
	ctx, service, f := setup(t)
	for _, investment := range []Investment{
		newInvestment(f, Stocks, 100000, 150000),
		newInvestment(f, Stocks, 200000, 300000),
		newInvestment(f, Crypto, 100000, 50000),
	} {
		_, err := service.Create(ctx, investment)
		require.NoError(t, err)
	}
	sold, err := service.Create(ctx, newInvestment(f, Savings, 999999, 999999))
	require.NoError(t, err)
	_, err = service.Sell(ctx, sold.Id, decimal.NewFromInt(999999), time.Time{})
	require.NoError(t, err)

	portfolio, err := service.Portfolio(ctx, f.FamilyId)

	require.NoError(t, err)
	assert.Equal(t, "400000", portfolio.Invested.String())
	assert.Equal(t, "500000", portfolio.Current.String())
	assert.Equal(t, "25", portfolio.ReturnRate.String())
	require.Len(t, portfolio.ByType, 2)
	assert.Equal(t, Crypto, portfolio.ByType[0].Type)
	assert.Equal(t, 2, portfolio.ByType[1].Investments)
}
