package api

import (
	"context"
	"net/http"
	"time"

	"activity-signup/internal/common/logger"
)

const readyCheckTimeout = 2 * time.Second

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readyHandler reports 503 while any enabled dependency check fails.
func readyHandler(checks map[string]Check, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}

		if len(failed) > 0 {
			log.Warn("readiness check failed", map[string]interface{}{"failed": failed})
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not_ready",
				"time":   time.Now().Format(time.RFC3339),
				"failed": failed,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ready",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
