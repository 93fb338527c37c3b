package expense

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, expense Expense) (int, error)
	GetById(ctx context.Context, id int) (*Expense, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Expense, error)
	Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	TotalByCategory(ctx context.Context, familyId int, from, to time.Time) ([]CategoryTotal, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectExpense = `SELECT e.id, e.category_id, e.user_id, e.family_id, e.amount, e.date, e.description, e.status,
	e.created_at, e.modified_at FROM expenses e`

func (r *RepositoryImpl) Create(ctx context.Context, expense Expense) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (category_id, user_id, family_id, amount, date, description, status, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.CategoryId, expense.UserId, expense.FamilyId, database.Amount(expense.Amount),
		database.FormatDate(expense.Date), database.NullableString(expense.Description), string(expense.Status),
		database.FormatTime(expense.CreatedAt), database.FormatTime(expense.ModifiedAt))
	if err != nil {
		return 0, fmt.Errorf("could not create expense: %w", err)
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Expense, error) {
	expense, err := scanExpense(r.db.QueryRowContext(ctx, selectExpense+" WHERE e.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("expense %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get expense: %w", err)
	}
	return &expense, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Expense, error) {
	var conditions database.Conditions
	conditions.Add("e.family_id = ?", familyId)
	filter.conditions(&conditions)

	rows, err := r.db.QueryContext(ctx, selectExpense+conditions.Where()+" ORDER BY e.date DESC, e.id DESC", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]Expense, 0, 32)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error) {
	query, args, ok := patch.Build("expenses", p.Assignments(), id,
		patch.Assignment{Column: "modified_at", Value: database.FormatTime(modifiedAt)})
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// TotalByCategory sums valid expenses dated in [from, to).
func (r *RepositoryImpl) TotalByCategory(ctx context.Context, familyId int, from, to time.Time) ([]CategoryTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.name, COALESCE(SUM(e.amount), 0), COUNT(*)
		FROM expenses e JOIN categories c ON c.id = e.category_id
		WHERE e.family_id = ? AND e.status = 'valid' AND e.date >= ? AND e.date < ?
		GROUP BY c.id, c.name ORDER BY SUM(e.amount) DESC, c.name`,
		familyId, database.FormatDate(from), database.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("could not sum expenses: %w", err)
	}
	defer rows.Close()

	totals := make([]CategoryTotal, 0, 8)
	for rows.Next() {
		var total CategoryTotal
		if err := rows.Scan(&total.CategoryId, &total.CategoryName, database.ScanAmount(&total.Total), &total.Count); err != nil {
			return nil, fmt.Errorf("could not scan expense total: %w", err)
		}
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func scanExpense(row database.RowScanner) (Expense, error) {
	var expense Expense
	var description sql.NullString
	var date, status, createdAt, modifiedAt string
	err := row.Scan(&expense.Id, &expense.CategoryId, &expense.UserId, &expense.FamilyId, database.ScanAmount(&expense.Amount), &date,
		&description, &status, &createdAt, &modifiedAt)
	if err != nil {
		return Expense{}, err
	}
	expense.Description = database.ScanNullString(description)
	expense.Status = Status(status)
	if expense.Date, err = database.ParseDate(date); err != nil {
		return Expense{}, err
	}
	if expense.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return Expense{}, err
	}
	expense.ModifiedAt, err = database.ParseTime(modifiedAt)
	return expense, err
}
