// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("POST /api/v1/vote", middleware.WithLogging(handler))

Every request gets an id, taken from X-Request-ID when the client sends one.
The id is echoed in the response header and available to handlers through
RequestID(r.Context()). Logs request start (method, path, remote) and
completion (status, duration_ms).

# CORS Middleware

The voting page is served from a different origin:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST, DELETE and OPTIONS with the JSON content type, the admin
key, and the legacy inEmail/token/votedTeam headers.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Handles X-Forwarded-For and X-Real-IP. Only used for logging.
*/
package middleware
