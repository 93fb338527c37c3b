package database

import (
	"context"
	"database/sql"
	"fmt"
)

type Table struct {
	Name    string
	Columns []Column
}

type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
}

func (t Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		names = append(names, c.Name)
	}
	return names
}

// DescribeSchema lists user tables in name order with their columns.
func DescribeSchema(ctx context.Context, db *sql.DB) ([]Table, error) {
	names, err := tableNames(ctx, db)
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(names))
	for _, name := range names {
		columns, err := tableColumns(ctx, db, name)
		if err != nil {
			return nil, err
		}
		tables = append(tables, Table{Name: name, Columns: columns})
	}
	return tables, nil
}

func tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("could not list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("could not scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func tableColumns(ctx context.Context, db *sql.DB, table string) ([]Column, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type, "notnull", pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("could not describe table %s: %w", table, err)
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		var pk int
		if err := rows.Scan(&c.Name, &c.Type, &c.NotNull, &pk); err != nil {
			return nil, fmt.Errorf("could not scan column of %s: %w", table, err)
		}
		c.PrimaryKey = pk > 0
		columns = append(columns, c)
	}
	return columns, rows.Err()
}
