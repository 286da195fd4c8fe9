// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the election API.

	mux := router.NewRouter(svc, sender, cfg, promRegistry)

# Endpoints

Operations:

	GET /health
	GET /metrics

Voting (public):

	POST /api/v1/requestToken - Mail a voting link to a pupil address
	POST /api/v1/vote         - Cast the vote for a token
	POST /api/v1/validate     - Check whether a token can still vote

Standings (public):

	GET /api/v1/teams        - All teams, most votes first
	GET /api/v1/teams/{name} - One team

Team administration (requires X-Admin-Key):

	POST   /api/v1/admin/teams        - Register a team
	DELETE /api/v1/admin/teams/{name} - Remove a team

API routes are wrapped with middleware.WithLogging. CORS is applied by the
caller around the whole mux.
*/
package router
