package setting

import (
	"context"
	"testing"
	"time"

	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/gestfin/gestfin/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func setupService(t *testing.T) (*ServiceImpl, *utils.MockClock, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)}
	return NewService(NewRepository(db), clock), clock, test_utils.NewFixture(t, db)
}

func TestServiceImpl_Set(t *testing.T) {
	service, clock, f := setupService(t)

	t.Run("should create then replace the value of a key", func(t *testing.T) {
		// given
		first, err := service.Set(ctx, f.UserId, "currency", "XOF")
		require.NoError(t, err)
		clock.FixedNow = clock.FixedNow.Add(time.Hour)

		// when
		second, err := service.Set(ctx, f.UserId, "currency", "EUR")

		// then
		require.NoError(t, err)
		assert.Equal(t, first.Id, second.Id)
		stored, err := service.Get(ctx, f.UserId, "currency")
		require.NoError(t, err)
		assert.Equal(t, "EUR", stored.Value)
		assert.Equal(t, clock.FixedNow, stored.ModifiedAt)
	})

	t.Run("should require a key", func(t *testing.T) {
		_, err := service.Set(ctx, f.UserId, "  ", "x")

		assert.ErrorIs(t, err, ErrKeyRequired)
	})

	t.Run("should return nil for an unknown key", func(t *testing.T) {
		setting, err := service.Get(ctx, f.UserId, "theme")

		require.NoError(t, err)
		assert.Nil(t, setting)
	})
}

func TestServiceImpl_ListByUser(t *testing.T) {
	service, _, f := setupService(t)
	_, err := service.Set(ctx, f.UserId, "language", "fr")
	require.NoError(t, err)
	_, err = service.Set(ctx, f.UserId, "currency", "XOF")
	require.NoError(t, err)

	settings, err := service.ListByUser(ctx, f.UserId)

	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.Equal(t, "currency", settings[0].Key)
	assert.Equal(t, "language", settings[1].Key)
}

func TestServiceImpl_Update(t *testing.T) {
	service, clock, f := setupService(t)
	currency, err := service.Set(ctx, f.UserId, "currency", "XOF")
	require.NoError(t, err)
	language, err := service.Set(ctx, f.UserId, "language", "fr")
	require.NoError(t, err)

	t.Run("should update the value and stamp the modification", func(t *testing.T) {
		clock.FixedNow = clock.FixedNow.Add(24 * time.Hour)

		updated, err := service.Update(ctx, currency.Id, Patch{Value: patch.Set("EUR")})

		require.NoError(t, err)
		assert.Equal(t, "EUR", updated.Value)
		assert.Equal(t, "currency", updated.Key)
		assert.Equal(t, clock.FixedNow, updated.ModifiedAt)
	})

	t.Run("should refuse a key taken by another setting", func(t *testing.T) {
		_, err := service.Update(ctx, language.Id, Patch{Key: patch.Set("currency")})

		assert.ErrorIs(t, err, ErrKeyTaken)
	})

	t.Run("should refuse a null value", func(t *testing.T) {
		_, err := service.Update(ctx, language.Id, Patch{Value: patch.Null[string]()})

		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("should return nil for a missing setting", func(t *testing.T) {
		setting, err := service.Update(ctx, 999, Patch{Value: patch.Set("x")})

		require.NoError(t, err)
		assert.Nil(t, setting)
	})

	t.Run("should delete", func(t *testing.T) {
		deleted, err := service.Delete(ctx, language.Id)
		require.NoError(t, err)
		assert.True(t, deleted)

		setting, err := service.GetById(ctx, language.Id)
		require.NoError(t, err)
		assert.Nil(t, setting)
	})
}
