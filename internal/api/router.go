// Package api maps HTTP requests onto the signup service.
package api

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"activity-signup/internal/common/logger"
	"activity-signup/internal/events"
	"activity-signup/internal/signup"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const indexPath = "/static/index.html"

// Check reports whether a dependency is usable. Used by /ready.
type Check func(ctx context.Context) error

type Dependencies struct {
	Service *signup.Service
	// Recent is optional; /events/recent is only mounted when it is set.
	Recent    events.RecentReader
	Logger    logger.Logger
	StaticDir string
	Checks    map[string]Check
}

// NewRouter builds the full HTTP surface of the service.
func NewRouter(deps Dependencies) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	h := newHandler(deps.Service, deps.Recent, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(log))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, indexPath, http.StatusTemporaryRedirect)
	})

	if deps.StaticDir != "" {
		r.Get(indexPath, serveIndex(deps.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir))))
	}

	r.Route("/activities", func(r chi.Router) {
		r.Get("/", h.listActivities)
		r.Get("/{name}", h.getActivity)
		r.Post("/{name}/signup", h.signup)
		r.Delete("/{name}/unregister", h.unregister)
	})

	if deps.Recent != nil {
		r.Get("/events/recent", h.recentEvents)
	}

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(deps.Checks, log))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// serveIndex serves index.html in place. http.FileServer would redirect it to the
// directory URL instead.
func serveIndex(staticDir string) http.HandlerFunc {
	path := filepath.Join(staticDir, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := os.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	}
}
