// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/election"
	"github.com/danielhkuo/team-election/models"
	"github.com/danielhkuo/team-election/store"
	"github.com/danielhkuo/team-election/teams"
	"github.com/danielhkuo/team-election/testutil"
)

const testEmail = "max.mustermann@s.birklehof.de"

type sentMail struct {
	to      string
	subject string
	body    string
}

// recordingSender keeps every mail instead of delivering it
type recordingSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (s *recordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *recordingSender) last(t *testing.T) sentMail {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("Expected a mail to be sent")
	}
	return s.sent[len(s.sent)-1]
}

type testEnv struct {
	db     *sql.DB
	cfg    cliparse.Config
	svc    *election.Service
	sender *recordingSender
}

// newTestEnv builds a service over a fresh database holding the given teams
func newTestEnv(t *testing.T, teamNames ...string) *testEnv {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	for _, name := range teamNames {
		testutil.CreateTestTeam(t, conn, name, 0)
	}

	return &testEnv{
		db:     conn,
		cfg:    testutil.GetTestConfig(),
		svc:    newTestService(t, conn),
		sender: &recordingSender{},
	}
}

func newTestService(t *testing.T, conn *sql.DB) *election.Service {
	t.Helper()

	st := store.NewSQL(conn)
	registry, err := teams.Load(context.Background(), st)
	if err != nil {
		t.Fatalf("Failed to load teams: %v", err)
	}

	svc, err := election.New(election.Config{Store: st, Teams: registry})
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	t.Cleanup(svc.Close)

	return svc
}

// requestToken issues a token for email and returns it as read from the mail
func (e *testEnv) requestToken(t *testing.T, email string) string {
	t.Helper()

	handler := NewTokenHandler(e.svc, e.sender, e.cfg)
	req := testutil.MakeRequest("POST", "/api/v1/requestToken", models.RequestTokenRequest{Email: email}, nil)
	w := httptest.NewRecorder()
	handler.RequestToken(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ResultResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Success {
		t.Fatalf("Expected token request to succeed, got error %d", resp.Error)
	}

	return tokenFromMail(t, e.sender.last(t).body)
}

// vote submits a JSON vote and returns the decoded result
func (e *testEnv) vote(t *testing.T, token, team string) models.ResultResponse {
	t.Helper()

	handler := NewVotingHandler(e.svc)
	req := testutil.MakeRequest("POST", "/api/v1/vote", models.VoteRequest{Token: token, Team: team}, nil)
	w := httptest.NewRecorder()
	handler.Vote(w, req)

	var resp models.ResultResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func tokenFromMail(t *testing.T, body string) string {
	t.Helper()

	_, rest, ok := strings.Cut(body, "token=")
	if !ok {
		t.Fatalf("No token link in mail body: %s", body)
	}
	token, _, _ := strings.Cut(rest, `"`)
	return token
}
