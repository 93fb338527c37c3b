package income

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/pkg/transaction"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	// Create stores income. Without a TransactionId it first records the
	// backing income transaction, in the same store transaction.
	Create(ctx context.Context, income Income) (Income, error)
	GetById(ctx context.Context, id int) (*Income, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Income, error)
	Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	Total(ctx context.Context, familyId int, from, to time.Time) (decimal.Decimal, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectIncome = `SELECT id, transaction_id, category_id, user_id, account_id, family_id, amount, date, source,
	description, status, created_at, modified_at FROM incomes`

func (r *RepositoryImpl) Create(ctx context.Context, income Income) (Income, error) {
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if income.TransactionId == 0 {
			categoryId := income.CategoryId
			transactionId, err := transaction.Insert(ctx, tx, transaction.Transaction{
				AccountId:   income.AccountId,
				CategoryId:  &categoryId,
				UserId:      income.UserId,
				Amount:      income.Amount,
				Date:        income.Date,
				Description: income.Description,
				Type:        transaction.Income,
				Status:      income.Status,
				CreatedAt:   income.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("backing transaction: %w", err)
			}
			income.TransactionId = transactionId
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO incomes (transaction_id, category_id, user_id, account_id, family_id, amount, date, source,
				description, status, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			income.TransactionId, income.CategoryId, income.UserId, income.AccountId, income.FamilyId,
			database.Amount(income.Amount), database.FormatDate(income.Date), income.Source,
			database.NullableString(income.Description), string(income.Status),
			database.FormatTime(income.CreatedAt), database.FormatTime(income.ModifiedAt))
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		income.Id = int(id)
		return err
	})
	if err != nil {
		return Income{}, fmt.Errorf("could not create income: %w", err)
	}
	return income, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Income, error) {
	income, err := scanIncome(r.db.QueryRowContext(ctx, selectIncome+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("income %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get income: %w", err)
	}
	return &income, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Income, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	filter.conditions(&conditions)

	rows, err := r.db.QueryContext(ctx, selectIncome+conditions.Where()+" ORDER BY date DESC, id DESC", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list income: %w", err)
	}
	defer rows.Close()

	incomes := make([]Income, 0, 16)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan income: %w", err)
		}
		incomes = append(incomes, income)
	}
	return incomes, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch, modifiedAt time.Time) (bool, error) {
	query, args, ok := patch.Build("incomes", p.Assignments(), id,
		patch.Assignment{Column: "modified_at", Value: database.FormatTime(modifiedAt)})
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update income: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM incomes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete income: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

// Total sums valid income dated within [from, to].
func (r *RepositoryImpl) Total(ctx context.Context, familyId int, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM incomes WHERE family_id = ? AND status = 'valid' AND date >= ? AND date <= ?`,
		familyId, database.FormatDate(from), database.FormatDate(to)).Scan(database.ScanAmount(&total))
	if err != nil {
		return decimal.Zero, fmt.Errorf("could not sum income: %w", err)
	}
	return total, nil
}

func scanIncome(row database.RowScanner) (Income, error) {
	var income Income
	var description sql.NullString
	var date, status, createdAt, modifiedAt string
	err := row.Scan(&income.Id, &income.TransactionId, &income.CategoryId, &income.UserId, &income.AccountId,
		&income.FamilyId, database.ScanAmount(&income.Amount), &date, &income.Source, &description, &status, &createdAt, &modifiedAt)
	if err != nil {
		return Income{}, err
	}
	income.Description = database.ScanNullString(description)
	income.Status = transaction.Status(status)
	if income.Date, err = database.ParseDate(date); err != nil {
		return Income{}, err
	}
	if income.CreatedAt, err = database.ParseTime(createdAt); err != nil {
		return Income{}, err
	}
	income.ModifiedAt, err = database.ParseTime(modifiedAt)
	return income, err
}
