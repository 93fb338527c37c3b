package notification

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

func create(t *testing.T, service *ServiceImpl, userId int, title string) Notification {
	t.Helper()
	notification, err := service.Create(ctx, Notification{UserId: userId, Type: BillReminder, Title: title, Message: "Electricity is due"})
	require.NoError(t, err)
	return notification
}

func TestServiceImpl_Create(t *testing.T) {
	service, _, f := setupService(t)

	t.Run("should default to info and start unread", func(t *testing.T) {
		notification, err := service.Create(ctx, Notification{UserId: f.UserId, Title: "Hello", Message: "Welcome"})

		require.NoError(t, err)
		assert.Equal(t, Info, notification.Type)
		assert.False(t, notification.Read)
		assert.Nil(t, notification.ReadAt)
		stored, err := service.GetById(ctx, notification.Id)
		require.NoError(t, err)
		assert.Equal(t, "Welcome", stored.Message)
	})

	t.Run("should reject an unknown type", func(t *testing.T) {
		_, err := service.Create(ctx, Notification{UserId: f.UserId, Type: "spam", Title: "x", Message: "y"})

		assert.ErrorIs(t, err, ErrInvalidType)
	})

	t.Run("should require title and message", func(t *testing.T) {
		_, err := service.Create(ctx, Notification{UserId: f.UserId, Title: " ", Message: "y"})

		assert.ErrorIs(t, err, ErrContentRequired)
	})
}

func TestServiceImpl_MarkRead(t *testing.T) {
	// given
	service, clock, f := setupService(t)
	notification := create(t, service, f.UserId, "Electricity")

	// when
	read, err := service.MarkRead(ctx, notification.Id)

	// then
	require.NoError(t, err)
	assert.True(t, read.Read)
	require.NotNil(t, read.ReadAt)
	assert.Equal(t, clock.FixedNow, *read.ReadAt)

	t.Run("should keep the first read time", func(t *testing.T) {
		clock.FixedNow = clock.FixedNow.Add(time.Hour)

		again, err := service.MarkRead(ctx, notification.Id)

		require.NoError(t, err)
		assert.Equal(t, *read.ReadAt, *again.ReadAt)
	})

	t.Run("should clear the read time when set unread", func(t *testing.T) {
		unread, err := service.Update(ctx, notification.Id, Patch{Read: patch.Set(false)})

		require.NoError(t, err)
		assert.False(t, unread.Read)
		assert.Nil(t, unread.ReadAt)
	})

	t.Run("should stamp the read time through an update", func(t *testing.T) {
		updated, err := service.Update(ctx, notification.Id, Patch{Read: patch.Set(true)})

		require.NoError(t, err)
		assert.True(t, updated.Read)
		require.NotNil(t, updated.ReadAt)
		assert.Equal(t, clock.FixedNow, *updated.ReadAt)
	})

	t.Run("should return nil for a missing notification", func(t *testing.T) {
		missing, err := service.MarkRead(ctx, 999)

		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestServiceImpl_MarkManyRead(t *testing.T) {
	// given
	service, _, f := setupService(t)
	first := create(t, service, f.UserId, "first")
	second := create(t, service, f.UserId, "second")
	create(t, service, f.UserId, "third")
	_, err := service.MarkRead(ctx, first.Id)
	require.NoError(t, err)

	// when
	count, err := service.MarkManyRead(ctx, []int{first.Id, second.Id, 999})

	// then
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	unread, err := service.CountUnread(ctx, f.UserId)
	require.NoError(t, err)
	assert.Equal(t, 1, unread)

	t.Run("should do nothing for an empty list", func(t *testing.T) {
		count, err := service.MarkManyRead(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestServiceImpl_ListByUser(t *testing.T) {
	// given
	service, clock, f := setupService(t)
	older := create(t, service, f.UserId, "older")
	clock.FixedNow = clock.FixedNow.Add(time.Minute)
	newer := create(t, service, f.UserId, "newer")
	_, err := service.MarkRead(ctx, older.Id)
	require.NoError(t, err)

	t.Run("should list newest first", func(t *testing.T) {
		all, err := service.ListByUser(ctx, f.UserId, false)

		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, newer.Id, all[0].Id)
		assert.Equal(t, older.Id, all[1].Id)
	})

	t.Run("should filter unread", func(t *testing.T) {
		unread, err := service.ListByUser(ctx, f.UserId, true)

		require.NoError(t, err)
		require.Len(t, unread, 1)
		assert.Equal(t, newer.Id, unread[0].Id)
	})

	t.Run("should mark everything read", func(t *testing.T) {
		count, err := service.MarkAllRead(ctx, f.UserId)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
		unread, err := service.CountUnread(ctx, f.UserId)
		require.NoError(t, err)
		assert.Equal(t, 0, unread)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	service, _, f := setupService(t)
	notification := create(t, service, f.UserId, "Electricity")

	t.Run("should refuse a null title", func(t *testing.T) {
		_, err := service.Update(ctx, notification.Id, Patch{Title: patch.Null[string]()})

		assert.ErrorIs(t, err, ErrMissingField)
	})

	t.Run("should return the row for an empty patch", func(t *testing.T) {
		same, err := service.Update(ctx, notification.Id, Patch{})

		require.NoError(t, err)
		assert.Equal(t, "Electricity", same.Title)
	})

	t.Run("should update the title only", func(t *testing.T) {
		updated, err := service.Update(ctx, notification.Id, Patch{Title: patch.Set("Water")})

		require.NoError(t, err)
		assert.Equal(t, "Water", updated.Title)
		assert.Equal(t, "Electricity is due", updated.Message)
	})

	t.Run("should delete", func(t *testing.T) {
		deleted, err := service.Delete(ctx, notification.Id)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = service.Delete(ctx, notification.Id)
		require.NoError(t, err)
		assert.False(t, deleted)
	})
}
