// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the article voting API.

# VotingHandler

VotingHandler wraps a *votes.Service with transport concerns:

	h := handlers.NewVotingHandler(svc, cfg, voteMetrics)

It verifies the request origin token, derives the voter identity from the
client address (hashed with auth.HashIP), and maps domain errors to status
codes.

# JSON API

	GET  /verification-token  → IssueToken
	POST /articles/{id}/votes → SubmitVote  body {"choice": "yes"|"no"}
	GET  /articles/{id}/votes → GetResults

Vote and results requests require the X-Verification-Token header.

# Errors

	403 invalid request origin   bad or missing token, checked first
	400 invalid vote             choice is not "yes" or "no"
	409 already voted            this voter already voted on the article
	500 internal error           store failure

# Legacy Endpoint

	POST /ajax → Ajax

Form fields action (article_vote | fetch_vote_results), post_id, vote and
security, answered with the {"success": ..., "data": ...} envelope.
*/
package handlers
