package account

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
	ErrAccountExists = failure.Conflict("account already exists in this family")
	ErrAccountInUse  = failure.Conflict("account is still referenced by income")
)

type Repository interface {
	Create(ctx context.Context, account Account) (int, error)
	GetById(ctx context.Context, id int) (*Account, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Account, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	TotalBalance(ctx context.Context, familyId int) ([]Balance, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectAccount = `SELECT id, family_id, name, balance, type, currency, created_at FROM accounts`

func (r *RepositoryImpl) Create(ctx context.Context, account Account) (int, error) {
	var id int
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkNameFree(ctx, tx, account.FamilyId, account.Name, 0); err != nil {
			return err
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (family_id, name, balance, type, currency, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			account.FamilyId, account.Name, database.Amount(account.Balance), string(account.Type), account.Currency,
			database.FormatTime(account.CreatedAt))
		if err != nil {
			return err
		}
		lastId, err := result.LastInsertId()
		id = int(lastId)
		return err
	})
	if err != nil {
		return 0, translate(err, "create account")
	}
	return id, nil
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Account, error) {
	account, err := scanAccount(r.db.QueryRowContext(ctx, selectAccount+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("account %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get account: %w", err)
	}
	return &account, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Account, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	if filter.Type != nil {
		conditions.Add("type = ?", string(*filter.Type))
	}
	if filter.Currency != nil {
		conditions.Add("currency = ?", *filter.Currency)
	}
	rows, err := r.db.QueryContext(ctx, selectAccount+conditions.Where()+" ORDER BY name, id", conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]Account, 0, 8)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("accounts", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	var updated bool
	err := database.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if name, ok := p.Name.Get(); ok {
			var familyId int
			err := tx.QueryRowContext(ctx, `SELECT family_id FROM accounts WHERE id = ?`, id).Scan(&familyId)
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			if err != nil {
				return err
			}
			if err := checkNameFree(ctx, tx, familyId, name, id); err != nil {
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
		return false, translate(err, "update account")
	}
	return updated, nil
}

// Delete removes the account and its transactions. Income recorded on the
// account blocks the deletion.
func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return false, translate(err, "delete account")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) TotalBalance(ctx context.Context, familyId int) ([]Balance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT currency, COALESCE(SUM(balance), 0), COUNT(*) FROM accounts WHERE family_id = ? GROUP BY currency ORDER BY currency`,
		familyId)
	if err != nil {
		return nil, fmt.Errorf("could not sum balances: %w", err)
	}
	defer rows.Close()

	balances := make([]Balance, 0, 2)
	for rows.Next() {
		var balance Balance
		if err := rows.Scan(&balance.Currency, database.ScanAmount(&balance.Total), &balance.Accounts); err != nil {
			return nil, fmt.Errorf("could not scan balance: %w", err)
		}
		balances = append(balances, balance)
	}
	return balances, rows.Err()
}

func checkNameFree(ctx context.Context, q database.Queryer, familyId int, name string, exceptId int) error {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE family_id = ? AND name = ? AND id <> ?`,
		familyId, name, exceptId).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAccountExists
	}
	return nil
}

func translate(err error, op string) error {
	switch {
	case failure.IsRule(err):
		return err
	case database.IsUniqueViolation(err):
		return ErrAccountExists
	case database.IsForeignKeyViolation(err) && op == "delete account":
		return ErrAccountInUse
	}
	return fmt.Errorf("could not %s: %w", op, err)
}

func scanAccount(row database.RowScanner) (Account, error) {
	var account Account
	var accountType, createdAt string
	err := row.Scan(&account.Id, &account.FamilyId, &account.Name, database.ScanAmount(&account.Balance), &accountType, &account.Currency, &createdAt)
	if err != nil {
		return Account{}, err
	}
	account.Type = Type(accountType)
	account.CreatedAt, err = database.ParseTime(createdAt)
	return account, err
}
