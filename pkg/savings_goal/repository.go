package savings_goal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, goal SavingsGoal) (int, error)
	GetById(ctx context.Context, id int) (*SavingsGoal, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]SavingsGoal, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// AddAmount raises the saved amount and moves a goal in progress to
	// reached once the target is met.
	AddAmount(ctx context.Context, id int, amount decimal.Decimal) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectGoal = `SELECT id, family_id, name, target_amount, current_amount, target_date, description, status, created_at
	FROM savings_goals`

func (r *RepositoryImpl) Create(ctx context.Context, goal SavingsGoal) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO savings_goals (family_id, name, target_amount, current_amount, target_date, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.FamilyId, goal.Name, database.Amount(goal.TargetAmount), database.Amount(goal.CurrentAmount),
		database.FormatDate(goal.TargetDate), database.NullableString(goal.Description), string(goal.Status),
		database.FormatTime(goal.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("could not create savings goal: %w", err)
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*SavingsGoal, error) {
	goal, err := scanGoal(r.db.QueryRowContext(ctx, selectGoal+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("savings goal %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get savings goal: %w", err)
	}
	return &goal, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]SavingsGoal, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	if filter.Status != nil {
		conditions.Add("status = ?", string(*filter.Status))
	}
	rows, err := r.db.QueryContext(ctx, selectGoal+conditions.Where()+" ORDER BY target_date DESC, id DESC", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list savings goals: %w", err)
	}
	defer rows.Close()

	goals := make([]SavingsGoal, 0, 4)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan savings goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("savings_goals", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	return r.exec(ctx, "update savings goal", query, args...)
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	return r.exec(ctx, "delete savings goal", `DELETE FROM savings_goals WHERE id = ?`, id)
}

// AddAmount reads, raises and writes the goal in one transaction.
func (r *RepositoryImpl) AddAmount(ctx context.Context, id int, amount decimal.Decimal) (bool, error) {
	found := false
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		goal, err := scanGoal(tx.QueryRowContext(ctx, selectGoal+" WHERE id = ?", id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		goal = goal.add(amount)
		if _, err := tx.ExecContext(ctx, `UPDATE savings_goals SET current_amount = ?, status = ? WHERE id = ?`,
			database.Amount(goal.CurrentAmount), string(goal.Status), id); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("could not add to savings goal: %w", err)
	}
	return found, nil
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

func scanGoal(row database.RowScanner) (SavingsGoal, error) {
	var goal SavingsGoal
	var description sql.NullString
	var targetDate, status, createdAt string
	err := row.Scan(&goal.Id, &goal.FamilyId, &goal.Name, database.ScanAmount(&goal.TargetAmount),
		database.ScanAmount(&goal.CurrentAmount), &targetDate, &description,
		&status, &createdAt)
	if err != nil {
		return SavingsGoal{}, err
	}
	goal.Status = Status(status)
	goal.Description = database.ScanNullString(description)
	if goal.TargetDate, err = database.ParseDate(targetDate); err != nil {
		return SavingsGoal{}, err
	}
	goal.CreatedAt, err = database.ParseTime(createdAt)
	return goal, err
}
