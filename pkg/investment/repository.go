package investment

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
	Create(ctx context.Context, investment Investment) (int, error)
	GetById(ctx context.Context, id int) (*Investment, error)
	ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Investment, error)
	Update(ctx context.Context, id int, p Patch) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	TotalsByType(ctx context.Context, familyId int) ([]TypeTotal, error)
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectInvestment = `SELECT id, family_id, type, name, invested_amount, current_value, purchase_date, sale_date,
	return_rate, description, created_at FROM investments`

func (r *RepositoryImpl) Create(ctx context.Context, investment Investment) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO investments (family_id, type, name, invested_amount, current_value, purchase_date, sale_date, return_rate,
			description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		investment.FamilyId, string(investment.Type), investment.Name, database.Amount(investment.InvestedAmount),
		database.Amount(investment.CurrentValue), database.FormatDate(investment.PurchaseDate),
		database.NullableDate(investment.SaleDate), database.Amount(investment.ReturnRate),
		database.NullableString(investment.Description), database.FormatTime(investment.CreatedAt))
	if err != nil {
		return 0, fmt.Errorf("could not create investment: %w", err)
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (r *RepositoryImpl) GetById(ctx context.Context, id int) (*Investment, error) {
	investment, err := scanInvestment(r.db.QueryRowContext(ctx, selectInvestment+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debugf("investment %d not found", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not get investment: %w", err)
	}
	return &investment, nil
}

func (r *RepositoryImpl) ListByFamily(ctx context.Context, familyId int, filter Filter) ([]Investment, error) {
	var conditions database.Conditions
	conditions.Add("family_id = ?", familyId)
	if filter.Type != nil {
		conditions.Add("type = ?", string(*filter.Type))
	}
	if filter.Sold != nil {
		if *filter.Sold {
			conditions.Add("sale_date IS NOT NULL")
		} else {
			conditions.Add("sale_date IS NULL")
		}
	}
	rows, err := r.db.QueryContext(ctx, selectInvestment+conditions.Where()+" ORDER BY purchase_date DESC, id DESC",
		conditions.Args()...)
	if err != nil {
		return nil, fmt.Errorf("could not list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]Investment, 0, 8)
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan investment: %w", err)
		}
		investments = append(investments, investment)
	}
	return investments, rows.Err()
}

func (r *RepositoryImpl) Update(ctx context.Context, id int, p Patch) (bool, error) {
	query, args, ok := patch.Build("investments", p.Assignments(), id)
	if !ok {
		return true, nil
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("could not update investment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM investments WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("could not delete investment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepositoryImpl) TotalsByType(ctx context.Context, familyId int) ([]TypeTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT type, COALESCE(SUM(invested_amount), 0), COALESCE(SUM(current_value), 0), COUNT(*)
		FROM investments WHERE family_id = ? AND sale_date IS NULL
		GROUP BY type ORDER BY type`,
		familyId)
	if err != nil {
		return nil, fmt.Errorf("could not sum investments: %w", err)
	}
	defer rows.Close()

	totals := make([]TypeTotal, 0, 7)
	for rows.Next() {
		var total TypeTotal
		var investmentType string
		if err := rows.Scan(&investmentType, database.ScanAmount(&total.Invested), database.ScanAmount(&total.Current), &total.Investments); err != nil {
			return nil, fmt.Errorf("could not scan investment total: %w", err)
		}
		total.Type = Type(investmentType)
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

func scanInvestment(row database.RowScanner) (Investment, error) {
	var investment Investment
	var saleDate, description sql.NullString
	var investmentType, purchaseDate, createdAt string
	err := row.Scan(&investment.Id, &investment.FamilyId, &investmentType, &investment.Name,
		database.ScanAmount(&investment.InvestedAmount), database.ScanAmount(&investment.CurrentValue), &purchaseDate, &saleDate, database.ScanAmount(&investment.ReturnRate), &description, &createdAt)
	if err != nil {
		return Investment{}, err
	}
	investment.Type = Type(investmentType)
	investment.Description = database.ScanNullString(description)
	if investment.PurchaseDate, err = database.ParseDate(purchaseDate); err != nil {
		return Investment{}, err
	}
	if investment.SaleDate, err = database.ScanNullDate(saleDate); err != nil {
		return Investment{}, err
	}
	investment.CreatedAt, err = database.ParseTime(createdAt)
	return investment, err
}
