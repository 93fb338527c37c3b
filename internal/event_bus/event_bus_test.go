package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should call handlers in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var calls []string
		bus.Subscribe(DebtRepaidEvent, func(Event) error { calls = append(calls, "first"); return nil })
		bus.Subscribe(DebtRepaidEvent, func(Event) error { calls = append(calls, "second"); return nil })

		err := bus.Publish(NewEvent(context.Background(), DebtRepaidEvent, DebtRepaid{DebtId: 1}))

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("should deliver typed payloads and skip mismatches", func(t *testing.T) {
		bus := NewEventBus()
		var received []DebtRepaid
		SubscribeTyped(bus, DebtRepaidEvent, func(e EventT[DebtRepaid]) error {
			received = append(received, e.Data)
			return nil
		})

		require.NoError(t, bus.Publish(NewEvent(context.Background(), DebtRepaidEvent, "not a debt")))
		require.NoError(t, bus.Publish(NewEvent(context.Background(), DebtRepaidEvent,
			DebtRepaid{DebtId: 7, Amount: decimal.NewFromInt(100)})))

		require.Len(t, received, 1)
		assert.Equal(t, 7, received[0].DebtId)
	})

	t.Run("should collect handler errors and recover panics", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(SavingsGoalReachedEvent, func(Event) error { return errors.New("boom") })
		bus.Subscribe(SavingsGoalReachedEvent, func(Event) error { panic("bad handler") })
		bus.Subscribe(SavingsGoalReachedEvent, func(Event) error { called = true; return nil })

		err := bus.Publish(NewEvent(context.Background(), SavingsGoalReachedEvent, SavingsGoalReached{}))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.True(t, called)
	})

	t.Run("should stop calling an unsubscribed handler", func(t *testing.T) {
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe(DebtRepaidEvent, func(Event) error { count++; return nil })

		require.NoError(t, bus.Publish(NewEvent(context.Background(), DebtRepaidEvent, DebtRepaid{})))
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), DebtRepaidEvent, DebtRepaid{})))

		assert.Equal(t, 1, count)
	})

	t.Run("should refuse a cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, DebtRepaidEvent, DebtRepaid{}))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
