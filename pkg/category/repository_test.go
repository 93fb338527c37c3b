package category

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gestfin/gestfin/internal/patch"
	"github.com/gestfin/gestfin/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (context.Context, *sql.DB, *RepositoryImpl, test_utils.Fixture) {
	db := test_utils.SetupTestDB(t)
	return context.Background(), db, NewRepository(db), test_utils.NewFixture(t, db)
}

func TestRepositoryImpl_Create(t *testing.T) {
	t.Run("should reject duplicate name and type in a family", func(t *testing.T) {
		ctx, _, repo, f := setupTestRepository(t)

		_, err := repo.Create(ctx, Category{FamilyId: f.FamilyId, Name: "Food", Type: Expense})

		assert.ErrorIs(t, err, ErrCategoryExists)
	})

	t.Run("should allow the same name with another type", func(t *testing.T) {
		ctx, _, repo, f := setupTestRepository(t)

		id, err := repo.Create(ctx, Category{FamilyId: f.FamilyId, Name: "Food", Type: Income, Icon: test_utils.Ptr("bowl")})

		require.NoError(t, err)
		stored, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "bowl", *stored.Icon)
		assert.Nil(t, stored.Color)
	})
}

func TestRepositoryImpl_ListByFamily(t *testing.T) {
	ctx, _, repo, f := setupTestRepository(t)
	_, err := repo.Create(ctx, Category{FamilyId: f.FamilyId, Name: "Bonus", Type: Income})
	require.NoError(t, err)

	all, err := repo.ListByFamily(ctx, f.FamilyId, Filter{})
	require.NoError(t, err)
	incomeType := Income
	income, err := repo.ListByFamily(ctx, f.FamilyId, Filter{Type: &incomeType})
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, []string{"Bonus", "Food", "Salary"}, []string{all[0].Name, all[1].Name, all[2].Name})
	require.Len(t, income, 2)
	assert.Equal(t, "Bonus", income[0].Name)
}

func TestRepositoryImpl_Update(t *testing.T) {
	ctx, _, repo, f := setupTestRepository(t)
	id, err := repo.Create(ctx, Category{FamilyId: f.FamilyId, Name: "Rent", Type: Expense, Color: test_utils.Ptr("#ff0000")})
	require.NoError(t, err)

	t.Run("should reject a rename onto an existing category", func(t *testing.T) {
		_, err := repo.Update(ctx, id, Patch{Name: patch.Set("Food")})

		assert.ErrorIs(t, err, ErrCategoryExists)
	})

	t.Run("should clear a null color and keep absent fields", func(t *testing.T) {
		ok, err := repo.Update(ctx, id, Patch{Color: patch.Null[string](), Icon: patch.Set("house")})

		require.NoError(t, err)
		assert.True(t, ok)
		stored, err := repo.GetById(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, stored.Color)
		assert.Equal(t, "house", *stored.Icon)
		assert.Equal(t, "Rent", stored.Name)
		assert.Equal(t, Expense, stored.Type)
	})
}

func TestRepositoryImpl_Delete(t *testing.T) {
	t.Run("should refuse a category referenced by an expense", func(t *testing.T) {
		ctx, db, repo, f := setupTestRepository(t)
		test_utils.InsertExpense(t, db, f, 2500, "2025-07-02")

		ok, err := repo.Delete(ctx, f.ExpenseCategoryId)

		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrCategoryInUse)
		assert.Equal(t, 1, test_utils.Count(t, db, "categories", "id = ?", f.ExpenseCategoryId))
	})

	t.Run("should null the reference of transactions and bills", func(t *testing.T) {
		// given
		ctx, db, repo, f := setupTestRepository(t)
		transactionId := test_utils.InsertTransaction(t, db, f.AccountId, f.UserId, &f.ExpenseCategoryId)
		_, err := db.ExecContext(ctx, `INSERT INTO bills (family_id, category_id, amount, due_date) VALUES (?, ?, 15000, '2025-07-15')`,
			f.FamilyId, f.ExpenseCategoryId)
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, `INSERT INTO budgets (family_id, category_id, amount, month, year) VALUES (?, ?, 1000, 7, 2025)`,
			f.FamilyId, f.ExpenseCategoryId)
		require.NoError(t, err)

		// when
		ok, err := repo.Delete(ctx, f.ExpenseCategoryId)

		// then
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, test_utils.Count(t, db, "transactions", "id = ? AND category_id IS NULL", transactionId))
		assert.Equal(t, 1, test_utils.Count(t, db, "bills", "category_id IS NULL"))
		assert.Zero(t, test_utils.Count(t, db, "budgets", ""))
	})
}
