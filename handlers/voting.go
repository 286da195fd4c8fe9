// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/team-election/election"
	"github.com/danielhkuo/team-election/middleware"
	"github.com/danielhkuo/team-election/models"
)

type VotingHandler struct {
	svc *election.Service
}

func NewVotingHandler(svc *election.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// Vote handles POST /api/v1/vote
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if err := parseOptionalJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Token = headerOr(r, req.Token, headerToken)
	req.Team = headerOr(r, req.Team, headerTeam)

	outcome, err := h.svc.RecordVote(r.Context(), req.Token, req.Team)
	switch outcome {
	case election.VoteOK:
		resultOK(w)
	case election.VoteAlreadyVoted:
		resultError(w, models.ErrCodeAlreadyVoted)
	case election.VoteUnknownTeam:
		resultError(w, models.ErrCodeUnknownTeam)
	case election.VoteInvalidToken:
		resultError(w, models.ErrCodeInvalidToken)
	default:
		// On a timeout the vote may still be counted; clients re-check with validate
		slog.Error("failed to record vote", "error", err, "team", req.Team,
			"request_id", middleware.RequestID(r.Context()))
		resultError(w, models.ErrCodeInternalError)
	}
}

// Validate handles POST /api/v1/validate
func (h *VotingHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRequest
	if err := parseOptionalJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Token = headerOr(r, req.Token, headerToken)

	status, err := h.svc.ValidateToken(r.Context(), req.Token)
	var code int
	switch status {
	case election.TokenValid:
		code = models.StatusValid
	case election.TokenAlreadyUsed:
		code = models.StatusAlreadyUsed
	case election.TokenInvalid:
		code = models.StatusInvalid
	default:
		slog.Error("failed to validate token", "error", err,
			"request_id", middleware.RequestID(r.Context()))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Unable to check token")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ValidateResponse{Status: code})
}
