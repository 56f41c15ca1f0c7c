package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"migration_drift_checker/internal/cli"
	"migration_drift_checker/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewListCommand(db.Open)
	cmd.SetContext(ctx)
	code := cli.Execute(cmd, os.Stderr)
	stop()
	os.Exit(code)
}
