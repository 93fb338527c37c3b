package notification

import (
	"context"
	"strings"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/utils"
)

var (
	ErrInvalidType     = failure.Rule("notification type must be budget_alert, bill_reminder, debt_reminder, goal_reached or info")
	ErrContentRequired = failure.Rule("notification title and message are required")
	ErrMissingField    = failure.Rule("type, title, message and read are required")
)

type Service interface {
	Create(ctx context.Context, notification Notification) (Notification, error)
	GetById(ctx context.Context, id int) (*Notification, error)
	ListByUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error)
	Update(ctx context.Context, id int, p Patch) (*Notification, error)
	Delete(ctx context.Context, id int) (bool, error)
	MarkRead(ctx context.Context, id int) (*Notification, error)
	MarkManyRead(ctx context.Context, ids []int) (int, error)
	MarkAllRead(ctx context.Context, userId int) (int, error)
	CountUnread(ctx context.Context, userId int) (int, error)
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: clock}
}

func (s *ServiceImpl) Create(ctx context.Context, notification Notification) (Notification, error) {
	if notification.Type == "" {
		notification.Type = Info
	}
	if !notification.Type.Valid() {
		return Notification{}, ErrInvalidType
	}
	if strings.TrimSpace(notification.Title) == "" || strings.TrimSpace(notification.Message) == "" {
		return Notification{}, ErrContentRequired
	}
	now := database.Timestamp(s.clock.Now())
	notification.CreatedAt = now
	notification.ReadAt = nil
	if notification.Read {
		notification.ReadAt = &now
	}

	id, err := s.repo.Create(ctx, notification)
	if err != nil {
		return Notification{}, failure.Store("create notification", err)
	}
	notification.Id = id
	return notification, nil
}

func (s *ServiceImpl) GetById(ctx context.Context, id int) (*Notification, error) {
	notification, err := s.repo.GetById(ctx, id)
	return notification, failure.Store("get notification", err)
}

func (s *ServiceImpl) ListByUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userId, unreadOnly)
	return notifications, failure.Store("list notifications", err)
}

// Update stamps the read time when Read turns true and clears it when Read
// is set false.
func (s *ServiceImpl) Update(ctx context.Context, id int, p Patch) (*Notification, error) {
	if p.Type.IsNull() || p.Title.IsNull() || p.Message.IsNull() || p.Read.IsNull() {
		return nil, ErrMissingField
	}
	if t, ok := p.Type.Get(); ok && !t.Valid() {
		return nil, ErrInvalidType
	}
	if len(p.Assignments()) == 0 {
		return s.GetById(ctx, id)
	}
	if read, ok := p.Read.Get(); ok {
		if !read {
			p.readAt = patch.Null[time.Time]()
		} else {
			current, err := s.GetById(ctx, id)
			if err != nil || current == nil {
				return nil, err
			}
			if !current.Read {
				p.readAt = patch.Set(database.Timestamp(s.clock.Now()))
			}
		}
	}

	found, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, failure.Store("update notification", err)
	}
	if !found {
		return nil, nil
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	return ok, failure.Store("delete notification", err)
}

// MarkRead returns nil when the notification does not exist. An already read
// notification keeps its read time.
func (s *ServiceImpl) MarkRead(ctx context.Context, id int) (*Notification, error) {
	if _, err := s.repo.MarkRead(ctx, []int{id}, database.Timestamp(s.clock.Now())); err != nil {
		return nil, failure.Store("mark notification read", err)
	}
	return s.GetById(ctx, id)
}

func (s *ServiceImpl) MarkManyRead(ctx context.Context, ids []int) (int, error) {
	count, err := s.repo.MarkRead(ctx, ids, database.Timestamp(s.clock.Now()))
	return count, failure.Store("mark notifications read", err)
}

func (s *ServiceImpl) MarkAllRead(ctx context.Context, userId int) (int, error) {
	count, err := s.repo.MarkAllRead(ctx, userId, database.Timestamp(s.clock.Now()))
	return count, failure.Store("mark all notifications read", err)
}

func (s *ServiceImpl) CountUnread(ctx context.Context, userId int) (int, error) {
	count, err := s.repo.CountUnread(ctx, userId)
	return count, failure.Store("count unread notifications", err)
}
