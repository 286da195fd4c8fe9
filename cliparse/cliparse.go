package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DefaultPort          = 8080
	DefaultEmailDomain   = "s.birklehof.de"
	DefaultVotingPage    = "https://birklehofelection.github.io/vote/go.html?token=%s"
	DefaultTokenCacheTTL = 30 * time.Minute
	DefaultVoteCacheTTL  = 15 * time.Minute
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	UserIDSalt   string
	AdminKey     string
	EmailDomain  string
	VotingPage   string

	TokenCacheTTL time.Duration
	VoteCacheTTL  time.Duration

	SMTPAddr     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
}

// ParseFlags parses CLI flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("team-election", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.UserIDSalt, "user-salt", "", "User id salt (prefer env)")
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Team administration key (prefer env)")

	fs.StringVar(&cfg.EmailDomain, "email-domain", "", "Accepted email domain")
	fs.StringVar(&cfg.VotingPage, "voting-page", "", "Voting page URL format, %s is replaced by the token")
	fs.DurationVar(&cfg.TokenCacheTTL, "token-cache-ttl", 0, "Token cache expiry after last access")
	fs.DurationVar(&cfg.VoteCacheTTL, "vote-cache-ttl", 0, "Vote state cache expiry after last access")

	fs.StringVar(&cfg.SMTPAddr, "smtp-addr", "", "SMTP server host:port (mail is only logged when empty)")
	fs.StringVar(&cfg.SMTPUser, "smtp-user", "", "SMTP user")
	fs.StringVar(&cfg.MailFrom, "mail-from", "", "Sender address for verification mails")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = DefaultPort
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	// Secrets - MUST be provided
	if cfg.UserIDSalt == "" {
		cfg.UserIDSalt = os.Getenv("USER_ID_SALT")
	}
	if cfg.UserIDSalt == "" {
		return Config{}, errors.New("USER_ID_SALT required")
	}

	if cfg.AdminKey == "" {
		cfg.AdminKey = os.Getenv("ADMIN_KEY")
	}
	if cfg.AdminKey == "" {
		return Config{}, errors.New("ADMIN_KEY required")
	}

	cfg.EmailDomain = stringOr(cfg.EmailDomain, "EMAIL_DOMAIN", DefaultEmailDomain)
	cfg.VotingPage = stringOr(cfg.VotingPage, "VOTING_PAGE_URL", DefaultVotingPage)

	var err error
	if cfg.TokenCacheTTL, err = durationOr(cfg.TokenCacheTTL, "TOKEN_CACHE_TTL", DefaultTokenCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.VoteCacheTTL, err = durationOr(cfg.VoteCacheTTL, "VOTE_CACHE_TTL", DefaultVoteCacheTTL); err != nil {
		return Config{}, err
	}

	// Mail is optional
	cfg.SMTPAddr = stringOr(cfg.SMTPAddr, "SMTP_ADDR", "")
	cfg.SMTPUser = stringOr(cfg.SMTPUser, "SMTP_USER", "")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.MailFrom = stringOr(cfg.MailFrom, "MAIL_FROM", cfg.SMTPUser)

	return cfg, nil
}

func stringOr(value, env, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

func durationOr(value time.Duration, env string, def time.Duration) (time.Duration, error) {
	if value > 0 {
		return value, nil
	}
	if v := os.Getenv(env); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("invalid %s env variable", env)
		}
		return d, nil
	}
	return def, nil
}
