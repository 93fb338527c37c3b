package category

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
	ErrCategoryExists = failure.Conflict("category already exists in this family")
	ErrCategoryInUse  = failure.Conflict("category is still used by expenses or income")
)

type Repository interface {
	Create(ctx context.Context, category Category) (int, error)
	GetById(ctx context.Context, id int) (*Category, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Category, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectCategory = `SELECT id, family_id, name, type, icon, color FROM categories`

func (r *RepositoryImpl) Create(ctx context.Context, category Category) (int, error) {
	var id int
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkNameFree(ctx, tx, category.FamilyId, category.Name, category.Type, 0); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO categories (family_id, name, type, icon, color) VALUES (?, ?, ?, ?, ?)`,
			category.FamilyId, category.Name, string(category.Type),
			database.NullableString(category.Icon), database.NullableString(category.Color))
		if err != nil {
			return err
		}
		lastId, err := result.LastInsertId()
		id = int(lastId)
		return err
	})
	if err != nil {
		return 0, translate(err, "create category")
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Category, error) {
	category, err := scanCategory(r.db.QueryRowContext(ctx, selectCategory+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("category %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get category: %w", err)
	}
	return &category, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Category, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	if filter.Type != nil {
		conditions.Add("type = ?", string(*filter.Type))
	}
	rows, err := r.db.QueryContext(ctx, selectCategory+conditions.Where()+" ORDER BY name, id", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]Category, 0, 16)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("categories", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	var updated bool
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if p.Name.IsSet() || p.Type.IsSet() {
			current, err := scanCategory(tx.QueryRowContext(ctx, selectCategory+" WHERE id = ?", id))
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			err = checkNameFree(ctx, tx, current.FamilyId, p.Name.OrElse(current.Name), p.Type.OrElse(current.Type), id)
			if err != nil {
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
		return false, translate(err, "update category")
	}
	return updated, nil
}

// Delete clears the category from transactions and bills and removes its
// budgets. Expenses and income keep the category alive.
func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, translate(err, "delete category")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func checkNameFree(ctx context.Context, q database.Queryer, familyId int, name string, categoryType Type, exceptId int) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE family_id = ? AND name = ? AND type = ? AND id <> ?`,
		familyId, name, string(categoryType), exceptId).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryExists
	}
	return nil
}

func translate(err error, op string) error {
	switch {
	case failure.IsRule(err):
		return err
	case database.IsUniqueViolation(err):
		return ErrCategoryExists
	case database.IsForeignKeyViolation(err) && op == "delete category":
		return ErrCategoryInUse
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func scanCategory(row database.RowScanner) (Category, error) {
	var category Category
	var categoryType string
	var icon, color sql.NullString
	if err := row.Scan(&category.Id, &category.FamilyId, &category.Name, &categoryType, &icon, &color); err != nil {
		return Category{}, err
	}
	category.Type = Type(categoryType)
	category.Icon = database.ScanNullString(icon)
	category.Color = database.ScanNullString(color)
	return category, nil
}
