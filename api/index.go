package handler

import (
	"net/http"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/handler"
	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository"
	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/core/services"
)

var mux http.Handler

func init() {
	cfg := config.Load()

	// Note: on serverless hosts the local document file is ephemeral
	// unless DATABASE_URL points at a remote libsql/Turso database.
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	dir := domain.ParseDirectory(cfg.LinksJSON, cfg.FriendsJSON)

	tracker := services.NewTrackerService(repo)
	resolver := services.NewResolverService(dir, tracker)
	dashboard := services.NewDashboardService(dir, repo)

	mux = handler.NewRouter(cfg, dir, resolver, dashboard, tracker)
}

// Handler is the entrypoint for serverless deployments
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
