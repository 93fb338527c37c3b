package notification

import (
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
)

type Type string

const (
	BudgetAlert  Type = "budget_alert"
	BillReminder Type = "bill_reminder"
	DebtReminder Type = "debt_reminder"
	GoalReached  Type = "goal_reached"
	Info         Type = "info"
)

func (t Type) Valid() bool {
	switch t {
	case BudgetAlert, BillReminder, DebtReminder, GoalReached, Info:
		return true
	}
	return false
}

type Notification struct {
	Id        int        `json:"id"`
	UserId    int        `json:"userId"`
	Type      Type       `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}

// Patch updates a notification. The read time follows Read and is filled in
// by the service.
type Patch struct {
	Type    patch.Field[Type]   `json:"type"`
	Title   patch.Field[string] `json:"title"`
	Message patch.Field[string] `json:"message"`
	Read    patch.Field[bool]   `json:"read"`

	readAt patch.Field[time.Time]
}

func (p Patch) Assignments() []patch.Assignment {
	var list []patch.Assignment
	list = patch.AppendWith(list, "type", p.Type, func(t Type) any { return string(t) })
	list = patch.Append(list, "title", p.Title)
	list = patch.Append(list, "message", p.Message)
	list = patch.Append(list, "read", p.Read)
	list = patch.AppendWith(list, "read_at", p.readAt, func(t time.Time) any { return database.FormatTime(t) })
	return list
}
