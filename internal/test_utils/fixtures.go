package test_utils

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gestfin/gestfin/internal/database"
	"github.com/shopspring/decimal"
)

// Fixture is the minimal graph most entity tests need: one user owning one
// family with an expense category, an income category and an account.
type Fixture struct {
	UserId            int
	FamilyId          int
	ExpenseCategoryId int
	IncomeCategoryId  int
	AccountId         int
}

func NewFixture(t *testing.T, db *sql.DB) Fixture {
	t.Helper()
	userId := InsertUser(t, db, "awa@example.com")
	familyId := InsertFamily(t, db, userId, "Diallo")
	return Fixture{
		UserId:            userId,
		FamilyId:          familyId,
		ExpenseCategoryId: InsertCategory(t, db, familyId, "Food", "expense"),
		IncomeCategoryId:  InsertCategory(t, db, familyId, "Salary", "income"),
		AccountId:         InsertAccount(t, db, familyId, "Main"),
	}
}

func InsertUser(t *testing.T, db *sql.DB, email string) int {
	t.Helper()
	return insert(t, db, `INSERT INTO users (name, email, password_hash) VALUES (?, ?, ?)`, "User "+email, email, "hash")
}

func InsertFamily(t *testing.T, db *sql.DB, ownerId int, name string) int {
	t.Helper()
	return insert(t, db, `INSERT INTO families (name, owner_user_id) VALUES (?, ?)`, name, ownerId)
}

func InsertCategory(t *testing.T, db *sql.DB, familyId int, name string, categoryType string) int {
	t.Helper()
	return insert(t, db, `INSERT INTO categories (family_id, name, type) VALUES (?, ?, ?)`, familyId, name, categoryType)
}

func InsertAccount(t *testing.T, db *sql.DB, familyId int, name string) int {
	t.Helper()
	return insert(t, db, `INSERT INTO accounts (family_id, name, type) VALUES (?, ?, 'checking')`, familyId, name)
}

func InsertTransaction(t *testing.T, db *sql.DB, accountId, userId int, categoryId *int) int {
	t.Helper()
	return insert(t, db, `INSERT INTO transactions (account_id, category_id, user_id, amount, date, type) VALUES (?, ?, ?, ?, '2025-07-01', 'income')`,
		accountId, categoryId, userId, database.Amount(decimal.NewFromInt(1000)))
}

func InsertExpense(t *testing.T, db *sql.DB, f Fixture, amount int64, date string) int {
	t.Helper()
	return insert(t, db, `INSERT INTO expenses (category_id, user_id, family_id, amount, date) VALUES (?, ?, ?, ?, ?)`,
		f.ExpenseCategoryId, f.UserId, f.FamilyId, database.Amount(decimal.NewFromInt(amount)), date)
}

// Count returns the number of rows of table matching where (may be empty).
func Count(t *testing.T, db *sql.DB, table string, where string, args ...any) int {
	t.Helper()
	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var count int
	if err := db.QueryRowContext(context.Background(), query, args...).Scan(&count); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return count
}

func insert(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	result, err := db.ExecContext(context.Background(), query, args...)
	if err != nil {
		t.Fatalf("Failed to insert fixture: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read fixture id: %v", err)
	}
	return int(id)
}

// Ptr returns a pointer to v, handy for optional fields in test data.
func Ptr[T any](v T) *T {
	return &v
}
