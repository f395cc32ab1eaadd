package api

import (
	"net/http"
	"strconv"
	"time"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// accessLog logs every request and records its duration under the matched route pattern.
func accessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				duration := time.Since(start)

				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				metrics.HTTPRequestDuration.
					WithLabelValues(r.Method, route, strconv.Itoa(status)).
					Observe(duration.Seconds())

				log.Info("http request", map[string]interface{}{
					"method":     r.Method,
					"path":       r.URL.Path,
					"route":      route,
					"status":     status,
					"bytes":      ww.BytesWritten(),
					"durationMs": duration.Milliseconds(),
					"requestId":  middleware.GetReqID(r.Context()),
					"remoteAddr": r.RemoteAddr,
				})
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
