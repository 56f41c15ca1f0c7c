package main

import (
	"fmt"
	"os"

	"migration_drift_checker/internal/cli"
	"migration_drift_checker/internal/config"
	"migration_drift_checker/internal/logging"
	"migration_drift_checker/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[FAIL] config error: %v\n", err)
		os.Exit(cli.ExitFailure)
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel, "migration-drift")

	cmd := cli.NewCheckCommand(cli.CheckOptions{
		MigrationsDir: cfg.MigrationsDir,
		MaxListed:     cfg.MaxListed,
		Sink:          report.NewSink(cfg.StepSummaryPath),
		Logger:        logger,
	})
	os.Exit(cli.Execute(cmd, os.Stderr))
}
