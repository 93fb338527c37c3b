package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/gestfin/gestfin/internal/patch"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Create(ctx context.Context, transaction Transaction) (int, error)
	GetById(ctx context.Context, id int) (*Transaction, error)
	ListByAccount(ctx context.Context, accountId int, filter Filter) ([]Transaction, error)
	ListByUser(ctx context.Context, userId int, filter Filter) ([]Transaction, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectTransaction = `SELECT id, account_id, category_id, user_id, amount, date, description, type, status, created_at
	FROM transactions`

func (r *RepositoryImpl) Create(ctx context.Context, transaction Transaction) (int, error) {
	id, err := Insert(ctx, r.db, transaction)
	if err != nil {
		return 0, fmt.Errorf("could not create transaction: %w", err)
	}
	return id, nil
}

// Insert writes transaction with q, which may be a store transaction shared
// with the income that the row backs.
func Insert(ctx context.Context, q database.Queryer, transaction Transaction) (int, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO transactions (account_id, category_id, user_id, amount, date, description, type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.AccountId, database.NullableInt(transaction.CategoryId), transaction.UserId,
		database.Amount(transaction.Amount), database.FormatDate(transaction.Date),
		database.NullableString(transaction.Description), string(transaction.Type), string(transaction.Status),
		database.FormatTime(transaction.CreatedAt))
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Transaction, error) {
	transaction, err := scanTransaction(r.db.QueryRowContext(ctx, selectTransaction+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("transaction %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get transaction: %w", err)
	}
	return &transaction, nil
}

func (r *RepositoryImpl) ListByAccount(ctx context.Context, accountId int, filter Filter) ([]Transaction, error) {
	return r.list(ctx, "account_id = ?", accountId, filter)
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userId int, filter Filter) ([]Transaction, error) {
	return r.list(ctx, "user_id = ?", userId, filter)
}

func (r *RepositoryImpl) list(ctx context.Context, parent string, parentId int, filter Filter) ([]Transaction, error) {
	var conditions database.Conditions
	conditions.Add(parent, parentId)
	filter.conditions(&conditions)

	rows, err := r.db.QueryContext(ctx, selectTransaction+conditions.Where()+" ORDER BY date DESC, id DESC", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]Transaction, 0, 32)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("transactions", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete transaction: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func scanTransaction(row database.RowScanner) (Transaction, error) {
	var transaction Transaction
	var categoryId sql.NullInt64
	var description sql.NullString
	var date, transactionType, status, createdAt string
	err := row.Scan(&transaction.Id, &transaction.AccountId, &categoryId, &transaction.UserId, database.ScanAmount(&transaction.Amount),
		&date, &description, &transactionType, &status, &createdAt)
	if err != nil {
		return Transaction{}, err
	}
	transaction.CategoryId = database.ScanNullInt(categoryId)
	transaction.Description = database.ScanNullString(description)
	transaction.Type = Type(transactionType)
	transaction.Status = Status(status)
	if transaction.Date, err = database.ParseDate(date); err != nil {
		return Transaction{}, err
	}
	transaction.CreatedAt, err = database.ParseTime(createdAt)
	return transaction, err
}
