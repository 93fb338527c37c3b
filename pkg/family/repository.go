package family

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

var ErrFamilyExists = failure.Conflict("family already exists for this owner")

type Repository interface {
	Create(ctx context.Context, family Family) (int, error)
	GetById(ctx context.Context, id int) (*Family, error)
	ListByUser(ctx context.Context, userId int) ([]Family, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectFamily = `SELECT id, name, owner_user_id, role, created_at FROM families`

func (r *RepositoryImpl) Create(ctx context.Context, family Family) (int, error) {
	var id int
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkNameFree(ctx, tx, family.Name, family.OwnerUserId, 0); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO families (name, owner_user_id, role, created_at) VALUES (?, ?, ?, ?)`,
			family.Name, family.OwnerUserId, string(family.Role), database.FormatTime(family.CreatedAt))
		if err != nil {
			return err
		}
		lastId, err := result.LastInsertId()
		id = int(lastId)
		return err
	})
	if err != nil {
		return 0, translate(err, "create family")
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Family, error) {
	family, err := scanFamily(r.db.QueryRowContext(ctx, selectFamily+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("family %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get family: %w", err)
	}
	return &family, nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userId int) ([]Family, error) {
	rows, err := r.db.QueryContext(ctx, selectFamily+" WHERE owner_user_id = ? ORDER BY name, id", userId)
	if err != nil {
		return nil, fmt.Errorf("could not list families: %w", err)
	}
	defer rows.Close()

	families := make([]Family, 0, 4)
	for rows.Next() {
		family, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan family: %w", err)
		}
		families = append(families, family)
	}
	return families, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("families", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	var updated bool
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if p.Name.IsSet() || p.OwnerUserId.IsSet() {
			var name string
			var ownerId int
			err := tx.QueryRowContext(ctx, `SELECT name, owner_user_id FROM families WHERE id = ?`, id).Scan(&name, &ownerId)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := checkNameFree(ctx, tx, p.Name.OrElse(name), p.OwnerUserId.OrElse(ownerId), id); err != nil {
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
		return false, translate(err, "update family")
	}
	return updated, nil
}

// Delete removes the family with everything it owns. Income and expenses go
// first: they restrict the deletion of the accounts and categories that the
// family row cascades to.
func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	var deleted bool
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM incomes WHERE family_id = ?`,
			`DELETE FROM expenses WHERE family_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		deleted = rowsAffected == 1
		return err
	})
	if err != nil {
		return false, fmt.Errorf("could not delete family: %w", err)
	}
	return deleted, nil
}

func checkNameFree(ctx context.Context, q database.Queryer, name string, ownerId int, exceptId int) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM families WHERE name = ? AND owner_user_id = ? AND id <> ?`, name, ownerId, exceptId).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrFamilyExists
	}
	return nil
}

func translate(err error, op string) error {
	if failure.IsRule(err) {
		return err
	}
	if database.IsUniqueViolation(err) {
		return ErrFamilyExists
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func scanFamily(row database.RowScanner) (Family, error) {
	var family Family
	var role, createdAt string
	if err := row.Scan(&family.Id, &family.Name, &family.OwnerUserId, &role, &createdAt); err != nil {
		return Family{}, err
	}
	family.Role = Role(role)
	var err error
	family.CreatedAt, err = database.ParseTime(createdAt)
	return family, err
}
