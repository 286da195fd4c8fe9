// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/team-election/auth"
	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/election"
	"github.com/danielhkuo/team-election/mail"
	"github.com/danielhkuo/team-election/middleware"
	"github.com/danielhkuo/team-election/models"
)

type TokenHandler struct {
	svc    *election.Service
	sender mail.Sender
	cfg    cliparse.Config
}

func NewTokenHandler(svc *election.Service, sender mail.Sender, cfg cliparse.Config) *TokenHandler {
	return &TokenHandler{svc: svc, sender: sender, cfg: cfg}
}

// RequestToken handles POST /api/v1/requestToken
func (h *TokenHandler) RequestToken(w http.ResponseWriter, r *http.Request) {
	var req models.RequestTokenRequest
	if err := parseOptionalJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.Email = headerOr(r, req.Email, headerEmail)

	email, err := auth.NormalizeEmail(req.Email, h.cfg.EmailDomain)
	if err != nil {
		resultError(w, models.ErrCodeInvalidEmail)
		return
	}
	userID := auth.HashUserID(email, h.cfg.UserIDSalt)
	requestID := middleware.RequestID(r.Context())

	token, outcome, err := h.svc.IssueToken(r.Context(), userID)
	switch outcome {
	case election.AlreadyIssued:
		resultError(w, models.ErrCodeAlreadySent)
		return
	case election.IssueFailed:
		slog.Error("failed to issue token", "error", err, "user_id", userID, "request_id", requestID)
		resultError(w, models.ErrCodeInternalError)
		return
	}

	body := mail.VerificationMessage(auth.FirstName(email), votingLink(h.cfg.VotingPage, token))
	if err := h.sender.Send(r.Context(), email, mail.VerificationSubject, body); err != nil {
		// The token is already persisted; it cannot be re-sent
		slog.Error("failed to send verification mail", "error", err, "user_id", userID, "request_id", requestID)
		resultError(w, models.ErrCodeUnableToSend)
		return
	}

	slog.Info("verification mail sent", "user_id", userID, "request_id", requestID)
	resultOK(w)
}

// votingLink substitutes the token into the voting page format
func votingLink(format, token string) string {
	if !strings.Contains(format, "%s") {
		return format + token
	}
	return strings.Replace(format, "%s", token, 1)
}
