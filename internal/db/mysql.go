package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type MySQLAdapter struct {
	db *sql.DB
}

func (m *MySQLAdapter) Provider() string { return "mysql" }

func (m *MySQLAdapter) Close() error { return m.db.Close() }

func (m *MySQLAdapter) Ping(ctx context.Context) error { return m.db.PingContext(ctx) }

func (m *MySQLAdapter) ListApplied(ctx context.Context, table string) ([]AppliedMigration, error) {
	if table == "" {
		table = DefaultMySQLTable
	}
	stmt := fmt.Sprintf("SELECT CAST(version AS CHAR), COALESCE(name, '') FROM %s ORDER BY version", quoteQualified(table, quoteBacktick))
	rows, err := m.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return scanApplied(rows)
}

func quoteBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
