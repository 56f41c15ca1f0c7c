package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"migration_drift_checker/internal/auth"
	"migration_drift_checker/internal/config"
	"migration_drift_checker/internal/db"
	"migration_drift_checker/internal/logging"
)

type Server struct {
	cfg    config.Config
	logger logging.Logger
	db     db.Adapter
	authn  *AuthMiddleware
	drift  *DriftHandler
}

// New wires the HTTP API. remoteDB and verifier may be nil.
func New(cfg config.Config, logger logging.Logger, remoteDB db.Adapter, verifier auth.TokenVerifier, drift *DriftHandler) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		db:     remoteDB,
		authn:  NewAuthMiddleware(verifier, logger),
		drift:  drift,
	}
}

func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddress,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", "addr", s.cfg.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(RequestLogger(s.logger))

	r.Route("/api/v1", func(api chi.Router) {
		api.Method(http.MethodGet, "/health", HealthHandler{DB: s.db})

		api.Group(func(authenticated chi.Router) {
			authenticated.Use(s.authn.RequireToken)
			authenticated.Post("/drift/{env}", s.drift.Check)
			authenticated.Get("/drift/{env}/live", s.drift.Live)
		})
	})

	return r
}
