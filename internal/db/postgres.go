package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type PostgresAdapter struct {
	db *sql.DB
}

func (p *PostgresAdapter) Provider() string { return "postgres" }

func (p *PostgresAdapter) Close() error { return p.db.Close() }

func (p *PostgresAdapter) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

func (p *PostgresAdapter) ListApplied(ctx context.Context, table string) ([]AppliedMigration, error) {
	if table == "" {
		table = DefaultPostgresTable
	}
	stmt := fmt.Sprintf(`SELECT version, COALESCE(name, '') FROM %s ORDER BY version`, quoteQualified(table, quoteIdent))
	rows, err := p.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return scanApplied(rows)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
