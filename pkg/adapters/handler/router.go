package handler

import (
	"net/http"

	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/ports"
)

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, dir *domain.Directory, resolver ports.RedirectResolver, dashboard ports.DashboardService, tracker ports.ClickTracker) http.Handler {
	// Initialize Handlers
	h := NewHTTPHandler(cfg, dir, resolver, dashboard, tracker)
	authHandler := NewAuthHandler(cfg)

	// Initialize Middleware
	mw := NewMiddleware(cfg)

	// Setup Router
	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /api/directory", h.Directory)
	mux.HandleFunc("GET /go/{id}", h.Redirect)
	mux.HandleFunc("GET /go/{id}/backup", h.RedirectBackup)
	mux.HandleFunc("GET /fgo/{id}", h.FriendRedirect)
	mux.HandleFunc("POST /admin/login", authHandler.Login)
	mux.HandleFunc("GET /admin/logout", authHandler.Logout)

	// Protected Routes (Admin API)
	protectedMux := http.NewServeMux()
	protectedMux.HandleFunc("GET /admin/api/logs", h.Logs)
	protectedMux.HandleFunc("GET /admin/api/dashboard", h.Dashboard)

	mux.Handle("/admin/api/", mw.AuthMiddleware(protectedMux))

	return mux
}
