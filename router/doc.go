// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the article voting API.

# Route Registration

NewRouter creates a configured http.ServeMux. The vote service is built by
the caller and injected, so the router never chooses a store:

	svc := votes.NewService(store)
	mux := router.NewRouter(svc, cfg, prometheus.NewRegistry())

# Endpoints

Operations:

	GET /health   - Liveness check
	GET /metrics  - Prometheus metrics from the given registry

Voting (public, X-Verification-Token required):

	GET  /verification-token   - Issue a token for the widget
	POST /articles/{id}/votes  - Submit a vote
	GET  /articles/{id}/votes  - Current percentages and the caller's vote

Legacy:

	POST /ajax - Form-encoded vote / results for the original widget script

Every voting route is wrapped with middleware.WithLogging and a request
duration histogram.
*/
package router
