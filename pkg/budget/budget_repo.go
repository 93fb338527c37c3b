package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/failure"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrBudgetExists = failure.Conflict("budget already exists for this category/period")

type BudgetRepo interface {
	// Store checks the period key and inserts the budget in one transaction.
	Store(ctx context.Context, budget Budget) (int, error)
	Get(ctx context.Context, id int) (*Budget, error)
	GetAll(ctx context.Context, familyId int, filter Filter) ([]Budget, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// Spent sums the valid expenses matching the budget's family, period and,
	// when set, category and user.
	Spent(ctx context.Context, budget Budget) (decimal.Decimal, error)
}

type BudgetRepoImpl struct {
	db *sql.DB
}

func NewBudgetRepo(db *sql.DB) *BudgetRepoImpl {
	return &BudgetRepoImpl{db: db}
}

const selectBudget = `SELECT b.id, b.family_id, b.category_id, b.amount, b.month, b.year, b.type, b.user_id, b.created_at,
		f.name, c.name, u.name
	FROM budgets b
	JOIN families f ON f.id = b.family_id
	LEFT JOIN categories c ON c.id = b.category_id
	LEFT JOIN users u ON u.id = b.user_id`

func (bi BudgetRepoImpl) Store(ctx context.Context, budget Budget) (int, error) {
	var id int
	err := database.WithTransaction(ctx, bi.db, func(tx *sql.Tx) error {
		err := checkPeriodFree(ctx, tx, budget.FamilyId, budget.CategoryId, budget.Month, budget.Year, budget.UserId, 0)
		if err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO budgets (family_id, category_id, amount, month, year, type, user_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			budget.FamilyId,
			database.NullableInt(budget.CategoryId),
			database.Amount(budget.Amount),
			budget.Month,
			budget.Year,
			database.NullableString(budget.Type),
			database.NullableInt(budget.UserId),
			database.FormatTime(budget.CreatedAt),
		)
		if err != nil {
			return err
		}
		lastInsertID, err := result.LastInsertId()
		id = int(lastInsertID)
		return err
	})
	if err != nil {
		return 0, translate(err, "insert budget")
	}
	return id, nil
}

func (bi BudgetRepoImpl) Get(ctx context.Context, id int) (*Budget, error) {
	budget, err := scanBudget(bi.db.QueryRowContext(ctx, selectBudget+" WHERE b.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("budget %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get budget: %w", err)
	}
	return &budget, nil
}

func (bi BudgetRepoImpl) GetAll(ctx context.Context, familyId int, filter Filter) ([]Budget, error) {
	var conditions database.Conditions
	conditions.Add("b.family_id = ?", familyId)
	if filter.Month != nil {
		conditions.Add("b.month = ?", *filter.Month)
	}
	if filter.Year != nil {
		conditions.Add("b.year = ?", *filter.Year)
	}
	if filter.CategoryId != nil {
		conditions.Add("b.category_id = ?", *filter.CategoryId)
	}
	if filter.UserId != nil {
		conditions.Add("b.user_id = ?", *filter.UserId)
	}
	query := selectBudget + conditions.Where() + " ORDER BY b.year DESC, b.month DESC, c.name, b.id"

	rows, err := bi.db.QueryContext(ctx, query, conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not query budgets: %w", err)
	}
	defer rows.Close()

	budgets := make([]Budget, 0, 12)
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return budgets, nil
}

// Update applies the patch. When the patch moves the budget to another
// category, period or user, the new key is checked in the same transaction.
func (bi BudgetRepoImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("budgets", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	var updated bool
	err := database.WithTransaction(ctx, bi.db, func(tx *sql.Tx) error {
		if p.touchesPeriodKey() {
			current, err := scanBudget(tx.QueryRowContext(ctx, selectBudget+" WHERE b.id = ?", id))
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			err = checkPeriodFree(ctx, tx,
				current.FamilyId,
				mergeNullable(p.CategoryId, current.CategoryId),
				p.Month.OrElse(current.Month),
				p.Year.OrElse(current.Year),
				mergeNullable(p.UserId, current.UserId),
				id)
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
		return false, translate(err, "update budget")
	}
	return updated, nil
}

func (bi BudgetRepoImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := bi.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("could not delete budget: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("could not get rows affected: %w", err)
	}
	return rowsAffected == 1, nil
}

func (bi BudgetRepoImpl) Spent(ctx context.Context, budget Budget) (decimal.Decimal, error) {
	from, to := budget.Period()
	var conditions database.Conditions
	conditions.Add("family_id = ?", budget.FamilyId)
	conditions.Add("status = 'valid'")
	conditions.Add("date >= ? AND date < ?", database.FormatDate(from), database.FormatDate(to))
	if budget.CategoryId != nil {
		conditions.Add("category_id = ?", *budget.CategoryId)
	}
	if budget.UserId != nil {
		conditions.Add("user_id = ?", *budget.UserId)
	}

	var spent decimal.Decimal
	err := bi.db.QueryRowContext(ctx, "SELECT COALESCE(SUM(amount), 0) FROM expenses"+conditions.Where(), conditions.Args()...).
		Scan(database.ScanAmount(&spent))
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not sum expenses of budget %d: %w", budget.Id, err)
	}
	return spent, nil
}

// checkPeriodFree looks for another budget with the same family, category,
// month, year and user. A missing category or user only matches another
// missing one.
func checkPeriodFree(ctx context.Context, q database.Queryer, familyId int, categoryId *int, month, year int, userId *int,
	exceptId int) error {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM budgets
		WHERE family_id = ? AND COALESCE(category_id, 0) = ? AND month = ? AND year = ? AND COALESCE(user_id, 0) = ?
		AND id <> ?`,
		familyId, orZero(categoryId), month, year, orZero(userId), exceptId).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrBudgetExists
	}
	return nil
}

func translate(err error, op string) error {
	if failure.IsRule(err) {
		return err
	}
	if database.IsUniqueViolation(err) {
		return ErrBudgetExists
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func mergeNullable(f patch.Field[int], current *int) *int {
	if !f.IsSet() {
		return current
	}
	if v, ok := f.Get(); ok {
		return &v
	}
	return nil
}

func orZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func scanBudget(row database.RowScanner) (Budget, error) {
	var budget Budget
	var categoryId, userId sql.NullInt64
	var budgetType, categoryName, userName sql.NullString
	var createdAt string
	err := row.Scan(
		&budget.Id,
		&budget.FamilyId,
		&categoryId,
		database.ScanAmount(&budget.Amount),
		&budget.Month,
		&budget.Year,
		&budgetType,
		&userId,
		&createdAt,
		&budget.FamilyName,
		&categoryName,
		&userName,
	)
	if err != nil {
		return Budget{}, err
	}
	budget.CategoryId = database.ScanNullInt(categoryId)
	budget.UserId = database.ScanNullInt(userId)
	budget.Type = database.ScanNullString(budgetType)
	budget.CategoryName = database.ScanNullString(categoryName)
	budget.UserName = database.ScanNullString(userName)
	budget.CreatedAt, err = database.ParseTime(createdAt)
	return budget, err
}
