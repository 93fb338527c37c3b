package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken = failure.Conflict("email already in use")
	ErrUserInUse  = failure.Conflict("user still has financial records")
)

type Repository interface {
	Create(ctx context.Context, user User) (int, error)
	GetById(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectUser = `SELECT id, name, email, password_hash, photo, created_at FROM users`

func (r *RepositoryImpl) Create(ctx context.Context, user User) (int, error) {
	var id int
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkEmailFree(ctx, tx, user.Email, 0); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO users (name, email, password_hash, photo, created_at) VALUES (?, ?, ?, ?, ?)`,
			user.Name, user.Email, user.PasswordHash, database.NullableString(user.Photo), database.FormatTime(user.CreatedAt))
		if err != nil {
			return err
		}
		lastId, err := result.LastInsertId()
		id = int(lastId)
		return err
	})
	if err != nil {
		return 0, translate(err, "create user")
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*User, error) {
	return r.getOne(ctx, selectUser+" WHERE id = ?", id)
}

func (r *RepositoryImpl) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx, selectUser+" WHERE email = ?", email)
}

func (r *RepositoryImpl) getOne(ctx context.Context, query string, arg any) (*User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("user %v not found", arg)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	return &user, nil
}

func (r *RepositoryImpl) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("could not list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0, 10)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("users", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	var updated bool
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if email, ok := p.Email.Get(); ok {
			if err := checkEmailFree(ctx, tx, email, id); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		updated = rowsAffected == 1
		return err
	})
	if err != nil {
		return false, translate(err, "update user")
	}
	return updated, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, translate(err, "delete user")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func checkEmailFree(ctx context.Context, q database.Queryer, email string, exceptId int) error {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ? AND id <> ?`, email, exceptId).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func translate(err error, op string) error {
	switch {
	case failure.IsRule(err):
		return err
	case database.IsUniqueViolation(err):
		return ErrEmailTaken
	case database.IsForeignKeyViolation(err):
		return ErrUserInUse
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func scanUser(row database.RowScanner) (User, error) {
	var user User
	var photo sql.NullString
	var createdAt string
	if err := row.Scan(&user.Id, &user.Name, &user.Email, &user.PasswordHash, &photo, &createdAt); err != nil {
		return User{}, err
	}
	user.Photo = database.ScanNullString(photo)
	var err error
	user.CreatedAt, err = database.ParseTime(createdAt)
	return user, err
}
