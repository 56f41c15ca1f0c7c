package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"migration_drift_checker/internal/config"
)

const (
	// DefaultPostgresTable is where the Supabase CLI records applied migrations.
	DefaultPostgresTable = "supabase_migrations.schema_migrations"
	DefaultMySQLTable    = "schema_migrations"
)

// Adapter abstracts provider-specific behavior.
type Adapter interface {
	Provider() string
	Close() error
	Ping(ctx context.Context) error
	ListApplied(ctx context.Context, table string) ([]AppliedMigration, error)
}

// Open builds an adapter for the given configuration.
func Open(cfg config.RemoteConfig) (Adapter, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("remote dsn is required")
	}
	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case "postgres":
		db, err := sql.Open("pgx", cfg.DSN)
		if err != nil {
			return nil, err
		}
		configurePool(db)
		return &PostgresAdapter{db: db}, nil
	case "mysql":
		// Validate DSN early to provide actionable errors.
		if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		db, err := sql.Open("mysql", cfg.DSN)
		if err != nil {
			return nil, err
		}
		configurePool(db)
		return &MySQLAdapter{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported provider %s", cfg.Provider)
	}
}

// Identifiers converts rows into canonical migration names, keeping order.
func Identifiers(rows []AppliedMigration) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Identifier())
	}
	return out
}

func configurePool(db *sql.DB) {
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetMaxOpenConns(5)
}

func scanApplied(rows *sql.Rows) ([]AppliedMigration, error) {
	defer rows.Close()

	out := []AppliedMigration{}
	for rows.Next() {
		var m AppliedMigration
		if err := rows.Scan(&m.Version, &m.Name); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		m.Version = strings.TrimSpace(m.Version)
		m.Name = strings.TrimSpace(m.Name)
		out = append(out, m)
	}
	return out, rows.Err()
}

// quoteQualified quotes each dot-separated part of a table name.
func quoteQualified(table string, quote func(string) string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}
