package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/lunaria-app/lunaria/internal/pkg/logger"
	"github.com/lunaria-app/lunaria/internal/pkg/utils"
)

// HealthHandler handles liveness and readiness probes
type HealthHandler struct {
	db     *sql.DB // nil when running on the in-memory store
	logger *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: log,
	}
}

// Healthz handles the liveness probe
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readyz handles the readiness probe
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.PingContext(ctx); err != nil {
			h.logger.ErrorWithErr(err, "Database ping failed")
			utils.WriteErrorMessage(w, http.StatusServiceUnavailable, "Database connection failed")
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
