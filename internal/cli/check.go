package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"migration_drift_checker/internal/check"
	"migration_drift_checker/internal/logging"
	"migration_drift_checker/internal/remote"
	"migration_drift_checker/internal/report"
)

// CheckOptions configures the drift check command.
type CheckOptions struct {
	MigrationsDir string
	MaxListed     int
	Sink          report.Sink
	Logger        logging.Logger
}

// NewCheckCommand creates the migration-drift command.
func NewCheckCommand(opts CheckOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migration-drift <environment> <remote-json>",
		Short: "Compare local Supabase migrations with the list applied on an environment",
		Long: `Compare the migrations committed under the migrations directory with the
migrations applied on a remote environment.

<remote-json> is the JSON printed by a migration-listing tool: a list of
names, a list of objects with a name/migration/version/file/filename field,
or either of those wrapped under migrations/data/result/items.

Exit status is 0 when both sides match and 1 on drift or error.`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runCheck(opts CheckOptions, env, remotePath string, cmd *cobra.Command) error {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	names, err := remote.ReadFile(remotePath)
	if err != nil {
		return err
	}
	logger.Debug("remote migrations parsed", "path", remotePath, "count", len(names))

	res, err := check.Run(opts.MigrationsDir, names)
	if err != nil {
		return err
	}

	for _, v := range res.Violations {
		logger.Warn("migration filename policy", "path", v.Path, "message", v.Message)
		fmt.Fprintf(cmd.ErrOrStderr(), "[WARN] %s\n", v)
	}

	renderer := report.Renderer{MaxListed: opts.MaxListed}
	code := renderer.Emit(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.Sink, env, res.Report)
	logger.Debug("drift check finished",
		"environment", env,
		"drift", res.Report.HasDrift(),
		"local", res.Report.LocalCount,
		"remote", res.Report.RemoteCount,
	)
	if code != report.ExitOK {
		return ErrDriftDetected
	}
	return nil
}
