// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("USER_ID_SALT", "test-salt")
	os.Setenv("ADMIN_KEY", "test-admin")
	os.Setenv("VOTE_CACHE_TTL", "5m")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.VoteCacheTTL != 5*time.Minute {
		t.Errorf("expected vote cache ttl 5m, got %v", cfg.VoteCacheTTL)
	}
	if cfg.TokenCacheTTL != DefaultTokenCacheTTL {
		t.Errorf("expected default token cache ttl, got %v", cfg.TokenCacheTTL)
	}
	if cfg.EmailDomain != DefaultEmailDomain {
		t.Errorf("expected default email domain, got %q", cfg.EmailDomain)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("EMAIL_DOMAIN", "example.org")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8081", "-d", "file:test.db", "-user-salt", "s1", "-admin-key", "k1", "-email-domain", "s.example.org"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8081 {
		t.Errorf("CLI should override env: expected 8081, got %d", cfg.Port)
	}
	if cfg.EmailDomain != "s.example.org" {
		t.Errorf("CLI should override env: expected s.example.org, got %q", cfg.EmailDomain)
	}
}

func TestParseFlags_MissingSecrets(t *testing.T) {
	defer os.Clearenv()

	tests := []struct {
		name string
		args []string
	}{
		{"no database", []string{"-user-salt", "s", "-admin-key", "k"}},
		{"no salt", []string{"-d", "file:test.db", "-admin-key", "k"}},
		{"no admin key", []string{"-d", "file:test.db", "-user-salt", "s"}},
		{"bad database type", []string{"-d", "file:test.db", "-t", "mysql", "-user-salt", "s", "-admin-key", "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlags_InvalidTTL(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("USER_ID_SALT", "s")
	os.Setenv("ADMIN_KEY", "k")
	os.Setenv("TOKEN_CACHE_TTL", "soon")
	defer os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error for invalid TOKEN_CACHE_TTL")
	}
}
