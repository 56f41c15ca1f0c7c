package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"migration_drift_checker/internal/auth"
	"migration_drift_checker/internal/config"
	"migration_drift_checker/internal/db"
	httpserver "migration_drift_checker/internal/http"
	"migration_drift_checker/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel, "drift-server")

	var remoteDB db.Adapter
	if cfg.Remote.DSN != "" {
		remoteDB, err = db.Open(cfg.Remote)
		if err != nil {
			logger.Error("remote db open failed", "provider", cfg.Remote.Provider, "error", err)
			os.Exit(1)
		}
		defer remoteDB.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := remoteDB.Ping(pingCtx); err != nil {
			// Live checks report the failure per request.
			logger.Warn("remote db unreachable at startup", "provider", cfg.Remote.Provider, "error", err)
		}
		cancel()
	}

	var verifier auth.TokenVerifier
	if cfg.OIDC.Enabled() {
		oidcVerifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDC)
		if err != nil {
			logger.Error("oidc verifier init failed", "issuer", cfg.OIDC.Issuer, "error", err)
			os.Exit(1)
		}
		verifier = oidcVerifier
	} else {
		logger.Warn("oidc disabled, drift endpoints are unauthenticated")
	}

	drift := httpserver.NewDriftHandler(cfg.MigrationsDir, cfg.MaxListed, remoteDB, cfg.Remote.Table, logger)
	server := httpserver.New(cfg, logger, remoteDB, verifier, drift)

	if err := server.Start(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
