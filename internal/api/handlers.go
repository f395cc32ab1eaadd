package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "activity-signup/internal/common/errors"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/events"
	"activity-signup/internal/signup"

	"github.com/go-chi/chi/v5"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

type handler struct {
	service    *signup.Service
	recent     events.RecentReader
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

type messageResponse struct {
	Message string `json:"message"`
}

func newHandler(service *signup.Service, recent events.RecentReader, log logger.Logger) *handler {
	return &handler{
		service:    service,
		recent:     recent,
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log,
	}
}

func (h *handler) listActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.List(r.Context()))
}

func (h *handler) getActivity(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	activity, err := h.service.Get(r.Context(), name)
	if err != nil {
		h.errHandler.HandleHTTPError(w, r, apperrors.FromRosterError(err, name, ""))
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *handler) signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := h.email(w, r)
	if !ok {
		return
	}

	result, err := h.service.Register(r.Context(), name, email)
	if err != nil {
		h.errHandler.HandleHTTPError(w, r, apperrors.FromRosterError(err, name, email))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *handler) unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	email, ok := h.email(w, r)
	if !ok {
		return
	}

	result, err := h.service.Unregister(r.Context(), name, email)
	if err != nil {
		h.errHandler.HandleHTTPError(w, r, apperrors.FromRosterError(err, name, email))
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: result.Message})
}

func (h *handler) recentEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.errHandler.HandleHTTPError(w, r, apperrors.NewInvalidParameterError("limit", raw))
			return
		}
		limit = min(n, maxRecentLimit)
	}

	list, err := h.recent.Recent(r.Context(), limit)
	if err != nil {
		h.errHandler.HandleHTTPError(w, r, apperrors.NewEventStoreFailedError(err))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// email returns the trimmed email query parameter, writing a 422 when it is absent.
func (h *handler) email(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.errHandler.HandleHTTPError(w, r, apperrors.NewMissingParameterError("email"))
		return "", false
	}
	return email, true
}

// activityName returns the decoded {name} segment. chi matches on RawPath when the
// request carries one, in which case the parameter is still escaped.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
