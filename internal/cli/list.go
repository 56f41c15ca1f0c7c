package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"migration_drift_checker/internal/config"
	"migration_drift_checker/internal/db"
)

// Opener builds a database adapter. Tests replace it.
type Opener func(cfg config.RemoteConfig) (db.Adapter, error)

type listOptions struct {
	provider string
	dsn      string
	table    string
	out      string
	timeout  time.Duration
}

// listedMigration puts the full identifier under "name" because that is the
// first field migration-drift looks at.
type listedMigration struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

type listOutput struct {
	Migrations []listedMigration `json:"migrations"`
}

// NewListCommand creates the migration-list command, which prints the
// migrations applied on a database in the JSON shape migration-drift reads.
func NewListCommand(open Opener) *cobra.Command {
	if open == nil {
		open = db.Open
	}
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "migration-list",
		Short: "Print the migrations applied on a remote database as JSON",
		Long: `Read the applied-migrations table of a Postgres (Supabase) or MySQL
database and print it as {"migrations":[...]} for migration-drift.`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), open, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "postgres", "database provider (postgres|mysql)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", os.Getenv("DRIFT_REMOTE_DSN"), "database connection string")
	cmd.Flags().StringVar(&opts.table, "table", "", "migrations table (default depends on provider)")
	cmd.Flags().StringVar(&opts.out, "out", "", "write JSON to this file instead of stdout")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "query timeout")

	return cmd
}

func runList(ctx context.Context, open Opener, opts *listOptions, stdout io.Writer) error {
	if opts.dsn == "" {
		return &ExitError{Code: ExitFailure, Message: "--dsn is required"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	adapter, err := open(config.RemoteConfig{Provider: opts.provider, DSN: opts.dsn, Table: opts.table})
	if err != nil {
		return fmt.Errorf("open %s: %w", opts.provider, err)
	}
	defer adapter.Close()

	rows, err := adapter.ListApplied(ctx, opts.table)
	if err != nil {
		return err
	}

	out := listOutput{Migrations: make([]listedMigration, 0, len(rows))}
	for _, r := range rows {
		out.Migrations = append(out.Migrations, listedMigration{
			Name:        r.Identifier(),
			Version:     r.Version,
			Description: r.Name,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encode migrations: %w", err)
	}
	data = append(data, '\n')

	if opts.out == "" {
		_, err = stdout.Write(data)
		return err
	}
	return os.WriteFile(opts.out, data, 0o644)
}
