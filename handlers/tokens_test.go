// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/team-election/auth"
	"github.com/danielhkuo/team-election/mail"
	"github.com/danielhkuo/team-election/models"
	"github.com/danielhkuo/team-election/testutil"
)

func TestRequestToken(t *testing.T) {
	testCases := []struct {
		name           string
		body           interface{}
		headers        map[string]string
		expectedStatus int
		expectSuccess  bool
		expectedCode   int
	}{
		{
			name:           "valid email in body",
			body:           models.RequestTokenRequest{Email: testEmail},
			expectedStatus: http.StatusOK,
			expectSuccess:  true,
		},
		{
			name:           "valid email in header",
			headers:        map[string]string{"inEmail": "erika.musterfrau@s.birklehof.de"},
			expectedStatus: http.StatusOK,
			expectSuccess:  true,
		},
		{
			name:           "wrong domain",
			body:           models.RequestTokenRequest{Email: "max.mustermann@example.com"},
			expectedStatus: http.StatusOK,
			expectedCode:   models.ErrCodeInvalidEmail,
		},
		{
			name:           "missing last name",
			body:           models.RequestTokenRequest{Email: "max@s.birklehof.de"},
			expectedStatus: http.StatusOK,
			expectedCode:   models.ErrCodeInvalidEmail,
		},
		{
			name:           "header injection",
			body:           models.RequestTokenRequest{Email: "a\r\nBcc: x.y.z@s.birklehof.de"},
			expectedStatus: http.StatusOK,
			expectedCode:   models.ErrCodeInvalidEmail,
		},
		{
			name:           "missing email",
			expectedStatus: http.StatusOK,
			expectedCode:   models.ErrCodeInvalidEmail,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			handler := NewTokenHandler(env.svc, env.sender, env.cfg)

			req := testutil.MakeRequest("POST", "/api/v1/requestToken", tc.body, tc.headers)
			w := httptest.NewRecorder()
			handler.RequestToken(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			var resp models.ResultResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Success != tc.expectSuccess {
				t.Errorf("Expected success=%v, got %v", tc.expectSuccess, resp.Success)
			}
			if resp.Error != tc.expectedCode {
				t.Errorf("Expected error code %d, got %d", tc.expectedCode, resp.Error)
			}

			wantMails := 0
			if tc.expectSuccess {
				wantMails = 1
			}
			if env.sender.count() != wantMails {
				t.Errorf("Expected %d mails, got %d", wantMails, env.sender.count())
			}

			// Rejected addresses never reach the store
			var users int
			if err := env.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&users); err != nil {
				t.Fatalf("Failed to count users: %v", err)
			}
			if users != wantMails {
				t.Errorf("Expected %d user rows, got %d", wantMails, users)
			}
		})
	}
}

func TestRequestToken_MailContent(t *testing.T) {
	env := newTestEnv(t)
	token := env.requestToken(t, testEmail)

	sent := env.sender.last(t)
	if sent.to != testEmail {
		t.Errorf("Expected mail to %s, got %s", testEmail, sent.to)
	}
	if sent.subject != mail.VerificationSubject {
		t.Errorf("Expected subject %q, got %q", mail.VerificationSubject, sent.subject)
	}
	if !strings.Contains(sent.body, "Hi Max,") {
		t.Errorf("Expected greeting with first name, got: %s", sent.body)
	}
	if token == "" {
		t.Fatal("Expected a token in the voting link")
	}

	// Only the hash is persisted
	userID := auth.HashUserID(testEmail, env.cfg.UserIDSalt)
	var stored string
	if err := env.db.QueryRow(`SELECT token_hash FROM users WHERE user_id = $1`, userID).Scan(&stored); err != nil {
		t.Fatalf("Failed to read user row: %v", err)
	}
	if stored == token {
		t.Error("Raw token must not be stored")
	}
	if stored != auth.HashToken(token) {
		t.Error("Stored hash does not match the mailed token")
	}
}

func TestRequestToken_AlreadySent(t *testing.T) {
	env := newTestEnv(t)
	env.requestToken(t, testEmail)

	handler := NewTokenHandler(env.svc, env.sender, env.cfg)

	// Same address with different case and whitespace is the same user
	req := testutil.MakeRequest("POST", "/api/v1/requestToken",
		models.RequestTokenRequest{Email: "  Max.Mustermann@S.Birklehof.de "}, nil)
	w := httptest.NewRecorder()
	handler.RequestToken(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ResultResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Success || resp.Error != models.ErrCodeAlreadySent {
		t.Errorf("Expected error code %d, got %+v", models.ErrCodeAlreadySent, resp)
	}
	if env.sender.count() != 1 {
		t.Errorf("Expected exactly one mail, got %d", env.sender.count())
	}
	if n := testutil.CountTokenHashes(t, env.db, auth.HashUserID(testEmail, env.cfg.UserIDSalt)); n != 1 {
		t.Errorf("Expected one token hash, got %d", n)
	}
}

func TestRequestToken_UnableToSend(t *testing.T) {
	env := newTestEnv(t)
	env.sender.err = errors.New("relay down")
	handler := NewTokenHandler(env.svc, env.sender, env.cfg)

	req := testutil.MakeRequest("POST", "/api/v1/requestToken", models.RequestTokenRequest{Email: testEmail}, nil)
	w := httptest.NewRecorder()
	handler.RequestToken(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ResultResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Success || resp.Error != models.ErrCodeUnableToSend {
		t.Errorf("Expected error code %d, got %+v", models.ErrCodeUnableToSend, resp)
	}
}

func TestRequestToken_InvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	handler := NewTokenHandler(env.svc, env.sender, env.cfg)

	req := httptest.NewRequest("POST", "/api/v1/requestToken", strings.NewReader("{invalid"))
	w := httptest.NewRecorder()
	handler.RequestToken(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestVotingLink(t *testing.T) {
	testCases := []struct {
		format   string
		expected string
	}{
		{"https://vote.example/go.html?token=%s", "https://vote.example/go.html?token=abc"},
		{"https://vote.example/go.html?token=", "https://vote.example/go.html?token=abc"},
	}

	for _, tc := range testCases {
		if got := votingLink(tc.format, "abc"); got != tc.expected {
			t.Errorf("votingLink(%q) = %q, want %q", tc.format, got, tc.expected)
		}
	}
}
