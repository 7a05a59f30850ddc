// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/article-voting/cliparse"
	"github.com/danielhkuo/article-voting/handlers"
	"github.com/danielhkuo/article-voting/metrics"
	"github.com/danielhkuo/article-voting/middleware"
	"github.com/danielhkuo/article-voting/votes"
)

const metricsNamespace = "article_voting"

func NewRouter(svc *votes.Service, cfg cliparse.Config, reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()

	voteMetrics := metrics.NewVoteMetrics(reg, metricsNamespace)

	// Initialize handlers
	votingHandler := handlers.NewVotingHandler(svc, cfg, voteMetrics)

	// route wraps a handler with logging and timing under its pattern
	route := func(pattern, label string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(voteMetrics.Instrument(label, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Verification token for the widget
	route("GET /verification-token", "/verification-token", votingHandler.IssueToken)

	// Voting operations (public, token protected)
	route("POST /articles/{id}/votes", "/articles/{id}/votes", votingHandler.SubmitVote)
	route("GET /articles/{id}/votes", "/articles/{id}/votes", votingHandler.GetResults)

	// Form-encoded endpoint used by the original widget script
	route("POST /ajax", "/ajax", votingHandler.Ajax)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("article-voting API v1"))
	})

	return mux
}
