package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prasetyadi/survey-kiosk/internal/db"
)

type SystemHandler struct {
	db *db.DB
}

func NewSystemHandler(d *db.DB) *SystemHandler {
	return &SystemHandler{db: d}
}

// HealthHandler reports liveness plus a database round-trip, so a kiosk
// watchdog restarting on failed health checks also catches a wedged database.
func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	code := http.StatusOK

	if err := h.db.GetConn().PingContext(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, map[string]any{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, code)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}
