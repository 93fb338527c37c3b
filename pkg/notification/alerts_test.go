package notification

import (
	"context"
	"testing"

	"github.com/gestfin/gestfin/internal/event_bus"
	"github.com/gestfin/gestfin/pkg/family"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type familiesStub map[int]family.Family

func (s familiesStub) GetById(_ context.Context, id int) (*family.Family, error) {
	f, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func TestAlerts(t *testing.T) {
	// given
	service, _, f := setupService(t)
	bus := event_bus.NewEventBus()
	alerts := NewAlerts(service, familiesStub{f.FamilyId: {Id: f.FamilyId, Name: "Diallo", OwnerUserId: f.UserId}})
	unsubscribe := alerts.Subscribe(bus)
	defer unsubscribe()

	t.Run("should notify the owner of a repaid debt", func(t *testing.T) {
		err := bus.Publish(event_bus.NewEvent(ctx, event_bus.DebtRepaidEvent, event_bus.DebtRepaid{
			DebtId: 1, FamilyId: f.FamilyId, Creditor: "Bank", Amount: decimal.NewFromInt(5000000),
		}))

		require.NoError(t, err)
		notifications, err := service.ListByUser(ctx, f.UserId, true)
		require.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.Equal(t, DebtReminder, notifications[0].Type)
		assert.Contains(t, notifications[0].Message, "Bank")
	})

	t.Run("should notify the owner of a reached goal", func(t *testing.T) {
		err := bus.Publish(event_bus.NewEvent(ctx, event_bus.SavingsGoalReachedEvent, event_bus.SavingsGoalReached{
			GoalId: 1, FamilyId: f.FamilyId, Name: "Car",
			TargetAmount: decimal.NewFromInt(1000), CurrentAmount: decimal.NewFromInt(1200),
		}))

		require.NoError(t, err)
		count, err := service.CountUnread(ctx, f.UserId)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("should ignore an unknown family", func(t *testing.T) {
		err := bus.Publish(event_bus.NewEvent(ctx, event_bus.DebtRepaidEvent, event_bus.DebtRepaid{FamilyId: 404}))

		require.NoError(t, err)
		count, err := service.CountUnread(ctx, f.UserId)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
