// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/election"
	"github.com/danielhkuo/team-election/handlers"
	"github.com/danielhkuo/team-election/mail"
	"github.com/danielhkuo/team-election/middleware"
)

// NewRouter registers every endpoint. Metrics are served from gatherer, or
// from the default registry when gatherer is nil.
func NewRouter(svc *election.Service, sender mail.Sender, cfg cliparse.Config, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// Initialize handlers
	tokenHandler := handlers.NewTokenHandler(svc, sender, cfg)
	votingHandler := handlers.NewVotingHandler(svc)
	teamHandler := handlers.NewTeamHandler(svc.Teams(), cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Voting (public)
	mux.HandleFunc("POST /api/v1/requestToken", middleware.WithLogging(tokenHandler.RequestToken))
	mux.HandleFunc("POST /api/v1/vote", middleware.WithLogging(votingHandler.Vote))
	mux.HandleFunc("POST /api/v1/validate", middleware.WithLogging(votingHandler.Validate))

	// Standings (public)
	mux.HandleFunc("GET /api/v1/teams", middleware.WithLogging(teamHandler.List))
	mux.HandleFunc("GET /api/v1/teams/{name}", middleware.WithLogging(teamHandler.Get))

	// Team administration (requires X-Admin-Key)
	mux.HandleFunc("POST /api/v1/admin/teams", middleware.WithLogging(teamHandler.Create))
	mux.HandleFunc("DELETE /api/v1/admin/teams/{name}", middleware.WithLogging(teamHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("team-election API v1"))
	})

	return mux
}
