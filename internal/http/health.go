package httpserver

import (
	"context"
	"net/http"
	"time"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness and, when a remote database is configured,
// whether it answers.
type HealthHandler struct {
	DB pinger
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

func (h HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "service_unhealthy", "database unreachable")
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "ok"})
}
