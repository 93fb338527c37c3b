package bill

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
	Create(ctx context.Context, bill Bill) (int, error)
	GetById(ctx context.Context, id int) (*Bill, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Bill, error)
	// ListDue lists unpaid bills of a family due in [from, to], soonest first.
	ListDue(ctx context.Context, familyId int, from, to time.Time) ([]Bill, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// MarkOverdue moves pending bills due before today to overdue.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
	// MarkPaid marks the bill paid and inserts next, when given, in the same
	// transaction. It returns the id of the inserted bill.
	MarkPaid(ctx context.Context, id int, next *Bill) (bool, int, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectBill = `SELECT id, family_id, category_id, amount, due_date, frequency, status, description, created_at FROM bills`

func (r *RepositoryImpl) Create(ctx context.Context, bill Bill) (int, error) {
	id, err := insert(ctx, r.db, bill)
	if err != nil {
		return 0, fmt.Errorf("could not create bill: %w", err)
	}
	return id, nil
}

func insert(ctx context.Context, q database.Queryer, bill Bill) (int, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO bills (family_id, category_id, amount, due_date, frequency, status, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.FamilyId, database.NullableInt(bill.CategoryId), database.Amount(bill.Amount), database.FormatDate(bill.DueDate),
		string(bill.Frequency), string(bill.Status), database.NullableString(bill.Description), database.FormatTime(bill.CreatedAt))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Bill, error) {
	bill, err := scanBill(r.db.QueryRowContext(ctx, selectBill+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("bill %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get bill: %w", err)
	}
	return &bill, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Bill, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	filter.conditions(&conditions)
	return r.list(ctx, selectBill+conditions.Where()+" ORDER BY due_date DESC, id DESC", conditions.Args()...)
}

func (r *RepositoryImpl) ListDue(ctx context.Context, familyId int, from, to time.Time) ([]Bill, error) {
	return r.list(ctx, selectBill+` WHERE family_id = ? AND status <> 'paid' AND due_date >= ? AND due_date <= ?
		ORDER BY due_date, id`,
		familyId, database.FormatDate(from), database.FormatDate(to))
}

func (r *RepositoryImpl) list(ctx context.Context, query string, args ...any) ([]Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]Bill, 0, 8)
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan bill: %w", err)
		}
		bills = append(bills, bill)
	}
	return bills, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("bills", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update bill: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete bill: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE bills SET status = 'overdue' WHERE status = 'pending' AND due_date < ?`,
		database.FormatDate(today))
	if err != nil {
		return 0, fmt.Errorf("could not mark bills overdue: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	return int(rowsAffected), err
}

func (r *RepositoryImpl) MarkPaid(ctx context.Context, id int, next *Bill) (bool, int, error) {
	var paid bool
	var nextId int
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `UPDATE bills SET status = 'paid' WHERE id = ?`, id)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		paid = rowsAffected == 1
		if !paid || next == nil {
			return nil
		}
		nextId, err = insert(ctx, tx, *next)
		return err
	})
	if err != nil {
		return false, 0, fmt.Errorf("could not mark bill %d paid: %w", id, err)
	}
	return paid, nextId, nil
}

func scanBill(row database.RowScanner) (Bill, error) {
	var bill Bill
	var categoryId sql.NullInt64
	var description sql.NullString
	var dueDate, frequency, status, createdAt string
	err := row.Scan(&bill.Id, &bill.FamilyId, &categoryId, database.ScanAmount(&bill.Amount), &dueDate, &frequency, &status, &description, &createdAt)
	if err != nil {
		return Bill{}, err
	}
	bill.CategoryId = database.ScanNullInt(categoryId)
	bill.Description = database.ScanNullString(description)
	bill.Frequency = Frequency(frequency)
	bill.Status = Status(status)
	if bill.DueDate, err = database.ParseDate(dueDate); err != nil {
		return Bill{}, err
	}
	bill.CreatedAt, err = database.ParseTime(createdAt)
	return bill, err
}
