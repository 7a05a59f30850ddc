// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging logs request start and completion with slog and tags both
lines with a random request ID:

	mux.HandleFunc("POST /articles/{id}/votes", middleware.WithLogging(h.SubmitVote))

The ID is returned in the X-Request-ID header and available to handlers
through RequestID(r.Context()).

# CORS

CORS reflects the request origin so the widget can be embedded on any
site, and allows the X-Verification-Token header.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusConflict, "already voted")
	err := middleware.ParseJSONBody(r, &req)

# Client IP

	ip := middleware.GetClientIP(r, cfg.TrustProxy)

Proxy headers (X-Forwarded-For, then X-Real-IP) are only consulted when
trustProxy is set; otherwise the address comes from RemoteAddr.
*/
package middleware
