package debt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, debt Debt) (int, error)
	GetById(ctx context.Context, id int) (*Debt, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Debt, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// Repay lowers the current amount, never below zero, and marks the debt
	// repaid once nothing is left.
	Repay(ctx context.Context, id int, amount decimal.Decimal) (bool, error)
	// MarkOverdue moves active debts due before today to overdue.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectDebt = `SELECT id, family_id, creditor, initial_amount, current_amount, interest_rate, start_date, due_date,
	status, description, created_at FROM debts`

func (r *RepositoryImpl) Create(ctx context.Context, debt Debt) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (family_id, creditor, initial_amount, current_amount, interest_rate, start_date, due_date, status,
			description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		debt.FamilyId, debt.Creditor, database.Amount(debt.InitialAmount), database.Amount(debt.CurrentAmount),
		database.Amount(debt.InterestRate), database.FormatDate(debt.StartDate), database.NullableDate(debt.DueDate),
		string(debt.Status), database.NullableString(debt.Description), database.FormatTime(debt.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("could not create debt: %w", err)
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Debt, error) {
	debt, err := scanDebt(r.db.QueryRowContext(ctx, selectDebt+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("debt %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get debt: %w", err)
	}
	return &debt, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Debt, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	if filter.Status != nil {
		conditions.Add("status = ?", string(*filter.Status))
	}
	if filter.Creditor != nil {
		conditions.Add("creditor = ?", *filter.Creditor)
	}
	rows, err := r.db.QueryContext(ctx, selectDebt+conditions.Where()+" ORDER BY start_date DESC, id DESC", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list debts: %w", err)
	}
	defer rows.Close()

	debts := make([]Debt, 0, 4)
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("debts", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	return r.exec(ctx, "update debt", query, args...)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	return r.exec(ctx, "delete debt", `DELETE FROM debts WHERE id = ?`, id)
}

// Repay reads, lowers and writes the debt in one transaction.
func (r *RepositoryImpl) Repay(ctx context.Context, id int, amount decimal.Decimal) (bool, error) {
	found := false
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		debt, err := scanDebt(tx.QueryRowContext(ctx, selectDebt+" WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		debt = debt.repay(amount)
		if _, err := tx.ExecContext(ctx, `UPDATE debts SET current_amount = ?, status = ? WHERE id = ?`,
			database.Amount(debt.CurrentAmount), string(debt.Status), id); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("could not repay debt: %w", err)
	}
	return found, nil
}

func (r *RepositoryImpl) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE debts SET status = 'overdue' WHERE status = 'active' AND due_date IS NOT NULL AND due_date < ?`,
		database.FormatDate(today))
	if err != nil {
		return 0, fmt.Errorf("could not mark debts overdue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	return int(rowsAffected), err
}

func (r *RepositoryImpl) exec(ctx context.Context, op string, query string, args ...any) (bool, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not %s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanDebt(row database.RowScanner) (Debt, error) {
	var debt Debt
	var dueDate, description sql.NullString
	var startDate, status, createdAt string
	err := row.Scan(&debt.Id, &debt.FamilyId, &debt.Creditor, database.ScanAmount(&debt.InitialAmount),
		database.ScanAmount(&debt.CurrentAmount), database.ScanAmount(&debt.InterestRate),
		&startDate, &dueDate, &status, &description, &createdAt)
	if err != nil {
		return Debt{}, err
	}
	debt.Status = Status(status)
	debt.Description = database.ScanNullString(description)
	if debt.StartDate, err = database.ParseDate(startDate); err != nil {
		return Debt{}, err
	}
	if debt.DueDate, err = database.ScanNullDate(dueDate); err != nil {
		return Debt{}, err
	}
	debt.CreatedAt, err = database.ParseTime(createdAt)
	return debt, err
}
