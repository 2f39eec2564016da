package main

import (
	"log"
	"net/http"
	"time"

	"github.com/lza6/NooMiNav-optimization/pkg/adapters/handler"
	"github.com/lza6/NooMiNav-optimization/pkg/adapters/repository"
	"github.com/lza6/NooMiNav-optimization/pkg/config"
	"github.com/lza6/NooMiNav-optimization/pkg/core/domain"
	"github.com/lza6/NooMiNav-optimization/pkg/core/services"
)

func main() {
	cfg := config.Load()

	// Initialize Repository
	repo, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open click store: %v", err)
	}
	defer repo.Close()

	// Directory comes from the environment; bad JSON degrades to empty.
	dir := domain.ParseDirectory(cfg.LinksJSON, cfg.FriendsJSON)

	// Initialize Services
	tracker := services.NewTrackerService(repo)
	resolver := services.NewResolverService(dir, tracker)
	dashboard := services.NewDashboardService(dir, repo)

	// Initialize Router
	mux := handler.NewRouter(cfg, dir, resolver, dashboard, tracker)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s (%d links, %d friends)", cfg.Port, len(dir.Links), len(dir.Friends))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
