package notification

import (
	"context"
	"fmt"

	"github.com/gestfin/gestfin/internal/event_bus"
	"github.com/gestfin/gestfin/pkg/family"
	log "github.com/sirupsen/logrus"
)

type FamilyReader interface {
	GetById(ctx context.Context, id int) (*family.Family, error)
}

// Alerts turns domain events into notifications for the owner of the family
// concerned.
type Alerts struct {
	notifications Service
	families      FamilyReader
}

func NewAlerts(notifications Service, families FamilyReader) *Alerts {
	return &Alerts{notifications: notifications, families: families}
}

// Subscribe registers the alert handlers and returns a function removing
// them.
func (a *Alerts) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubscribeDebt := event_bus.SubscribeTyped(bus, event_bus.DebtRepaidEvent, a.onDebtRepaid)
	unsubscribeGoal := event_bus.SubscribeTyped(bus, event_bus.SavingsGoalReachedEvent, a.onGoalReached)
	return func() {
		unsubscribeDebt()
		unsubscribeGoal()
	}
}

func (a *Alerts) onDebtRepaid(e event_bus.EventT[event_bus.DebtRepaid]) error {
	return a.notifyOwner(e.Context(), e.Data.FamilyId, Notification{
		Type:    DebtReminder,
		Title:   "Debt repaid",
		Message: fmt.Sprintf("The debt of %s owed to %s is fully repaid.", e.Data.Amount.String(), e.Data.Creditor),
	})
}

func (a *Alerts) onGoalReached(e event_bus.EventT[event_bus.SavingsGoalReached]) error {
	return a.notifyOwner(e.Context(), e.Data.FamilyId, Notification{
		Type:    GoalReached,
		Title:   "Savings goal reached",
		Message: fmt.Sprintf("%s reached %s of its %s target.", e.Data.Name, e.Data.CurrentAmount.String(), e.Data.TargetAmount.String()),
	})
}

func (a *Alerts) notifyOwner(ctx context.Context, familyId int, notification Notification) error {
	owner, err := a.families.GetById(ctx, familyId)
	if err != nil {
		return err
	}
	if owner == nil {
		log.Warnf("no family %d to notify about %q", familyId, notification.Title)
		return nil
	}
	notification.UserId = owner.OwnerUserId
	_, err = a.notifications.Create(ctx, notification)
	return err
}
