// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - RequestTokenRequest: email
  - VoteRequest: token, team
  - ValidateRequest: token
  - CreateTeamRequest: name

Voting endpoints also accept the same values as headers (inEmail, token,
votedTeam) for older clients.

# Response Types

  - ResultResponse: success, error (code)
  - ValidateResponse: status
  - TeamsResponse / Team: name, votes
  - ErrorResponse: error, message (malformed requests, admin failures)

# Error Codes

	1  already voted
	2  unknown team
	3  unable to send the verification mail
	4  token already sent
	5  invalid email address
	6  invalid token
	7  internal error, safe to retry

# Token Status

	0  valid and unused
	1  already used
	2  invalid
*/
package models
