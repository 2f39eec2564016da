package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

type HTTPHandler struct {
	cfg       *config.Config
	dir       *domain.Directory
	resolver  ports.RedirectResolver
	dashboard ports.DashboardService
	tracker   ports.ClickTracker
}

func NewHTTPHandler(cfg *config.Config, dir *domain.Directory, resolver ports.RedirectResolver, dashboard ports.DashboardService, tracker ports.ClickTracker) *HTTPHandler {
	return &HTTPHandler{
		cfg:       cfg,
		dir:       dir,
		resolver:  resolver,
		dashboard: dashboard,
		tracker:   tracker,
	}
}

// Redirect handles GET /go/{id}.
func (h *HTTPHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	h.redirectLink(w, r, false)
}

// RedirectBackup handles GET /go/{id}/backup.
func (h *HTTPHandler) RedirectBackup(w http.ResponseWriter, r *http.Request) {
	h.redirectLink(w, r, true)
}

func (h *HTTPHandler) redirectLink(w http.ResponseWriter, r *http.Request, useBackup bool) {
	id := r.PathValue("id")

	dest, err := h.resolver.ResolveLink(r.Context(), id, useBackup, visitorFrom(r))
	if err != nil {
		writeResolveError(w, err)
		return
	}

	http.Redirect(w, r, dest, http.StatusFound)
}

// FriendRedirect handles GET /fgo/{id}.
func (h *HTTPHandler) FriendRedirect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	dest, err := h.resolver.ResolveFriend(r.Context(), id, visitorFrom(r))
	if err != nil {
		writeResolveError(w, err)
		return
	}

	http.Redirect(w, r, dest, http.StatusFound)
}

func writeResolveError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsNotFound(err):
		http.Error(w, "Link not found", http.StatusNotFound)
	case domain.IsNoDestination(err):
		http.Error(w, "No valid URL available", http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type logRow struct {
	ClickTime string `json:"click_time"`
}

// Logs handles GET /admin/api/logs?id=&m=. Returns click times for one
// identifier, newest first, capped at 50, defaulting to the current month.
func (h *HTTPHandler) Logs(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	monthKey := r.URL.Query().Get("m")

	entries, err := h.dashboard.Logs(r.Context(), id, monthKey)
	if err != nil {
		http.Error(w, "Failed to fetch logs", http.StatusInternalServerError)
		return
	}

	rows := make([]logRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, logRow{ClickTime: e.ClickTime})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

// Dashboard handles GET /admin/api/dashboard?m=.
func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	overview, err := h.dashboard.Overview(r.Context(), r.URL.Query().Get("m"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overview)
}

// Directory handles GET /api/directory, the configured entries the home
// page renders from.
func (h *HTTPHandler) Directory(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"title":    h.cfg.Title,
		"subtitle": h.cfg.Subtitle,
		"contact":  h.cfg.ContactURL,
		"links":    h.dir.Links,
		"friends":  h.dir.Friends,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Healthz reports liveness plus the background record-failure count so
// persistence trouble is visible without failing any redirect.
func (h *HTTPHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	res := map[string]interface{}{
		"message":         "ok",
		"record_failures": h.tracker.RecordFailures(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&res)
}

func visitorFrom(r *http.Request) domain.Visitor {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return domain.Visitor{IP: ip, UserAgent: r.UserAgent()}
}
