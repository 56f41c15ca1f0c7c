package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"migration_drift_checker/internal/auth"
	"migration_drift_checker/internal/check"
	"migration_drift_checker/internal/db"
	"migration_drift_checker/internal/diff"
	"migration_drift_checker/internal/logging"
	"migration_drift_checker/internal/migration"
	"migration_drift_checker/internal/remote"
	"migration_drift_checker/internal/report"
)

const maxPayloadBytes = 4 << 20

type DriftHandler struct {
	migrationsDir string
	renderer      report.Renderer
	source        db.Adapter
	table         string
	logger        logging.Logger
}

type driftResponse struct {
	RunID       uuid.UUID             `json:"run_id"`
	Environment string                `json:"environment"`
	Drift       bool                  `json:"drift"`
	Report      diff.Report           `json:"report"`
	Summary     string                `json:"summary"`
	Policy      []migration.Violation `json:"policy,omitempty"`
}

// NewDriftHandler compares remote listings against the migrations in
// migrationsDir. source may be nil, which disables the live route.
func NewDriftHandler(migrationsDir string, maxListed int, source db.Adapter, table string, logger logging.Logger) *DriftHandler {
	return &DriftHandler{
		migrationsDir: migrationsDir,
		renderer:      report.Renderer{MaxListed: maxListed},
		source:        source,
		table:         table,
		logger:        logger,
	}
}

// Check compares the remote listing posted in the request body.
func (h *DriftHandler) Check(w http.ResponseWriter, r *http.Request) {
	env := chi.URLParam(r, "env")
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "request body could not be read")
		return
	}
	names, err := remote.Parse(body)
	if err != nil {
		h.fail(w, env, err)
		return
	}
	h.respond(w, r, env, "payload", names)
}

// Live compares against the migrations table of the configured database.
func (h *DriftHandler) Live(w http.ResponseWriter, r *http.Request) {
	env := chi.URLParam(r, "env")
	if h.source == nil {
		writeError(w, http.StatusNotFound, "not_configured", "no remote database configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	rows, err := h.source.ListApplied(ctx, h.table)
	if err != nil {
		h.logger.Error("list applied migrations failed", "environment", env, "error", err)
		writeError(w, http.StatusBadGateway, "remote_unavailable", "remote migrations could not be listed")
		return
	}
	h.respond(w, r, env, h.source.Provider(), db.Identifiers(rows))
}

func (h *DriftHandler) respond(w http.ResponseWriter, r *http.Request, env, origin string, names []string) {
	res, err := check.Run(h.migrationsDir, names)
	if err != nil {
		h.fail(w, env, err)
		return
	}

	runID := uuid.New()
	args := []any{
		"run_id", runID,
		"environment", env,
		"origin", origin,
		"drift", res.Report.HasDrift(),
		"local", res.Report.LocalCount,
		"remote", res.Report.RemoteCount,
	}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		args = append(args, "repository", claims.Repository, "workflow", claims.Workflow)
	}
	h.logger.Info("drift check finished", args...)
	for _, v := range res.Violations {
		h.logger.Warn("migration filename policy", "run_id", runID, "path", v.Path, "message", v.Message)
	}

	writeJSON(w, http.StatusOK, driftResponse{
		RunID:       runID,
		Environment: env,
		Drift:       res.Report.HasDrift(),
		Report:      res.Report,
		Summary:     h.renderer.Summary(env, res.Report),
		Policy:      res.Violations,
	})
}

func (h *DriftHandler) fail(w http.ResponseWriter, env string, err error) {
	var schemaErr *remote.SchemaError
	var cfgErr *migration.ConfigurationError
	switch {
	case errors.As(err, &schemaErr):
		writeError(w, http.StatusUnprocessableEntity, "invalid_payload", schemaErr.Error())
	case errors.As(err, &cfgErr):
		h.logger.Error("migrations directory missing", "environment", env, "path", cfgErr.Path)
		writeError(w, http.StatusInternalServerError, "misconfigured", "local migrations directory not found")
	default:
		h.logger.Error("drift check failed", "environment", env, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "drift check failed")
	}
}
