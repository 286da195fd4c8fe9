// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/team-election/cliparse"
	"github.com/danielhkuo/team-election/db"
)

// SetupTestDB creates a fresh file-backed SQLite database with the full schema.
// The database is closed when the test finishes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "election.db")
	conn, err := db.Open(context.Background(), "sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8080,
		DatabaseURL:   "file:test.db",
		DatabaseType:  "sqlite",
		UserIDSalt:    "test-user-salt",
		AdminKey:      "test-admin-key",
		EmailDomain:   cliparse.DefaultEmailDomain,
		VotingPage:    cliparse.DefaultVotingPage,
		TokenCacheTTL: time.Minute,
		VoteCacheTTL:  time.Minute,
	}
}

// CreateTestTeam inserts a team row directly and returns its name
func CreateTestTeam(t *testing.T, conn *sql.DB, name string, votes int64) string {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO teams (name, votes) VALUES ($1, $2)`, name, votes)
	if err != nil {
		t.Fatalf("Failed to create test team: %v", err)
	}

	return name
}

// TeamVotes reads the persisted tally of a team
func TeamVotes(t *testing.T, conn *sql.DB, name string) int64 {
	t.Helper()

	var votes int64
	if err := conn.QueryRow(`SELECT votes FROM teams WHERE name = $1`, name).Scan(&votes); err != nil {
		t.Fatalf("Failed to read team votes: %v", err)
	}

	return votes
}

// CountTokenHashes returns how many token hashes are stored for a user
func CountTokenHashes(t *testing.T, conn *sql.DB, userID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(token_hash) FROM users WHERE user_id = $1`, userID).Scan(&n); err != nil {
		t.Fatalf("Failed to count token hashes: %v", err)
	}

	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
