package setting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
)

var ErrKeyTaken = failure.Conflict("setting key already exists for this user")

type Repository interface {
	Upsert(ctx context.Context, setting Setting) (int, error)
	GetById(ctx context.Context, id int) (*Setting, error)
	Get(ctx context.Context, userId int, key string) (*Setting, error)
	ListByUser(ctx context.Context, userId int) ([]Setting, error)
	Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectSetting = `SELECT id, user_id, key, value, modified_at FROM settings`

// Upsert inserts the setting or replaces the value of the existing
// (user_id, key) row, returning the row id either way.
func (r *RepositoryImpl) Upsert(ctx context.Context, setting Setting) (int, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO settings (user_id, key, value, modified_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id, key) DO UPDATE SET value = excluded.value, modified_at = excluded.modified_at
		 RETURNING id`,
		setting.UserId, setting.Key, setting.Value, database.FormatTime(setting.ModifiedAt)).Scan(&id)
	if err != nil {
		return 0, translate(err, "save setting")
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Setting, error) {
	return r.getOne(ctx, selectSetting+` WHERE id = ?`, id)
}

func (r *RepositoryImpl) Get(ctx context.Context, userId int, key string) (*Setting, error) {
	return r.getOne(ctx, selectSetting+` WHERE user_id = ? AND key = ?`, userId, key)
}

func (r *RepositoryImpl) getOne(ctx context.Context, query string, args ...any) (*Setting, error) {
	setting, err := scanSetting(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get setting: %w", err)
	}
	return &setting, nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userId int) ([]Setting, error) {
	rows, err := r.db.QueryContext(ctx, selectSetting+` WHERE user_id = ? ORDER BY key`, userId)
	if err != nil {
		return nil, fmt.Errorf("could not list settings: %w", err)
	}
	defer rows.Close()

	settings := make([]Setting, 0)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan setting: %w", err)
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error) {
	query, args, ok := patch.Build("settings", p.Assignments(), id,
		patch.Assignment{Column: "modified_at", Value: database.FormatTime(modifiedAt)})
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, translate(err, "update setting")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete setting: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func translate(err error, op string) error {
	if database.IsUniqueViolation(err) {
		return ErrKeyTaken
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func scanSetting(row database.RowScanner) (Setting, error) {
	var setting Setting
	var modifiedAt string
	if err := row.Scan(&setting.Id, &setting.UserId, &setting.Key, &setting.Value, &modifiedAt); err != nil {
		return Setting{}, err
	}
	var err error
	setting.ModifiedAt, err = database.ParseTime(modifiedAt)
	return setting, err
}
