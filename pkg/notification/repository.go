package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, notification Notification) (int, error)
	GetById(ctx context.Context, id int) (*Notification, error)
	ListByUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// MarkRead marks the unread notifications among ids as read at the given
	// time and returns how many changed.
	MarkRead(ctx context.Context, ids []int, at time.Time) (int, error)
	MarkAllRead(ctx context.Context, userId int, at time.Time) (int, error)
	CountUnread(ctx context.Context, userId int) (int, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectNotification = `SELECT id, user_id, type, title, message, read, created_at, read_at FROM notifications`

func (r *RepositoryImpl) Create(ctx context.Context, notification Notification) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, read, created_at, read_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.UserId, string(notification.Type), notification.Title, notification.Message, notification.Read,
		database.FormatTime(notification.CreatedAt), database.NullableTime(notification.ReadAt))
	if err != nil {
		return 0, fmt.Errorf("could not create notification: %w", err)
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Notification, error) {
	notification, err := scanNotification(r.db.QueryRowContext(ctx, selectNotification+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("notification %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get notification: %w", err)
	}
	return &notification, nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userId int, unreadOnly bool) ([]Notification, error) {
	var conditions database.Conditions
	conditions.Add("user_id = ?", userId)
	if unreadOnly {
		conditions.Add("read = 0")
	}
	rows, err := r.db.QueryContext(ctx, selectNotification+conditions.Where()+" ORDER BY created_at DESC, id DESC",
		conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0, 16)
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("notifications", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) MarkRead(ctx context.Context, ids []int, at time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := make([]any, 0, len(ids)+1)
	args = append(args, database.FormatTime(at))
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	return r.markRead(ctx, `UPDATE notifications SET read = 1, read_at = ? WHERE read = 0 AND id IN (`+placeholders+`)`, args...)
}

func (r *RepositoryImpl) MarkAllRead(ctx context.Context, userId int, at time.Time) (int, error) {
	return r.markRead(ctx, `UPDATE notifications SET read = 1, read_at = ? WHERE read = 0 AND user_id = ?`,
		database.FormatTime(at), userId)
}

func (r *RepositoryImpl) markRead(ctx context.Context, query string, args ...any) (int, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("could not mark notifications read: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	return int(rowsAffected), err
}

func (r *RepositoryImpl) CountUnread(ctx context.Context, userId int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0`, userId).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("could not count unread notifications: %w", err)
	}
	return count, nil
}

func scanNotification(row database.RowScanner) (Notification, error) {
	var notification Notification
	var readAt sql.NullString
	var notificationType, createdAt string
	err := row.Scan(&notification.Id, &notification.UserId, &notificationType, &notification.Title, &notification.Message,
		&notification.Read, &createdAt, &readAt)
	if err != nil {
		return Notification{}, err
	}
	notification.Type = Type(notificationType)
	if notification.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return Notification{}, err
	}
	notification.ReadAt, err = database.ScanNullTime(readAt)
	return notification, err
}
