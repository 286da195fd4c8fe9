// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

  - TokenHandler: validates the address and mails the voting link
  - VotingHandler: vote and validate
  - TeamHandler: standings and team administration

	tokenHandler := handlers.NewTokenHandler(svc, sender, cfg)
	votingHandler := handlers.NewVotingHandler(svc)
	teamHandler := handlers.NewTeamHandler(svc.Teams(), cfg)

# Voting Flow

	POST /api/v1/requestToken → RequestToken (mails the link, at most once per address)
	POST /api/v1/validate     → Validate (status 0 valid, 1 used, 2 invalid)
	POST /api/v1/vote         → Vote

Parameters come from a JSON body or, for older clients, from the inEmail,
token and votedTeam headers. Domain outcomes are reported as
{"success":false,"error":<code>} with status 200; only internal failures
(code 7) use a 5xx status.

# Team Administration

	POST   /api/v1/admin/teams        → Create (idempotent)
	DELETE /api/v1/admin/teams/{name} → Delete

Admin operations require the X-Admin-Key header.
*/
package handlers
