package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Airside/internal/standards"
)

// StandardsRepository keeps the standards tables in PostgreSQL so a server
// can load its dataset from the database instead of files.
type StandardsRepository interface {
	ReplaceTable(ctx context.Context, table string, records []standards.Record) error
	LoadTables(ctx context.Context) (map[string][]standards.Record, error)
}

type PostgresStandardsRepository struct {
	db *sql.DB
}

func NewPostgresStandardsDB(db *sql.DB) *PostgresStandardsRepository {
	return &PostgresStandardsRepository{db: db}
}

// ReplaceTable swaps the stored records of one table in a transaction,
// keeping their order.
func (r *PostgresStandardsRepository) ReplaceTable(ctx context.Context, table string, records []standards.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM standards_records WHERE table_name=$1", table); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO standards_records (table_name, position, record) VALUES ($1, $2, $3)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("%s record %d: %w", table, i, err)
		}
		if _, err := stmt.ExecContext(ctx, table, i, raw); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *PostgresStandardsRepository) LoadTables(ctx context.Context) (map[string][]standards.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT table_name, record FROM standards_records ORDER BY table_name, position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := map[string][]standards.Record{}
	for rows.Next() {
		var name string
		var raw []byte
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, err
		}
		var rec standards.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		tables[name] = append(tables[name], rec)
	}
	return tables, rows.Err()
}

// LoadStore builds a standards store from the database.
func LoadStore(ctx context.Context, r StandardsRepository) (*standards.Store, error) {
	tables, err := r.LoadTables(ctx)
	if err != nil {
		return nil, err
	}
	return standards.NewStore(tables)
}
