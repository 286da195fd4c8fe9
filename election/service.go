// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/team-election/auth"
	"github.com/danielhkuo/team-election/cache"
	"github.com/danielhkuo/team-election/queue"
	"github.com/danielhkuo/team-election/store"
	"github.com/danielhkuo/team-election/teams"
)

const (
	DefaultTokenCacheTTL = 30 * time.Minute
	DefaultVoteCacheTTL  = 15 * time.Minute
)

type Config struct {
	Store store.Store
	Teams *teams.Registry

	TokenCacheTTL time.Duration
	VoteCacheTTL  time.Duration

	Logger       *slog.Logger
	PromRegistry prometheus.Registerer
}

// Service issues voting tokens, validates them and records votes. It is the
// only entry point the HTTP layer uses.
type Service struct {
	store  store.Store
	teams  *teams.Registry
	logger *slog.Logger

	tokens *cache.Cache[string] // user id -> token hash
	owners *cache.Cache[string] // token hash -> user id
	votes  *cache.Cache[bool]   // user id -> voted

	queue   *queue.Queue
	metrics metrics
}

// New builds the service and starts its vote worker and cache janitors.
// Close releases them.
func New(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("election: store is required")
	}
	if cfg.Teams == nil {
		return nil, errors.New("election: team registry is required")
	}
	if cfg.TokenCacheTTL <= 0 {
		cfg.TokenCacheTTL = DefaultTokenCacheTTL
	}
	if cfg.VoteCacheTTL <= 0 {
		cfg.VoteCacheTTL = DefaultVoteCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Service{
		store:  cfg.Store,
		teams:  cfg.Teams,
		logger: cfg.Logger,
	}
	s.tokens = cache.New(cfg.TokenCacheTTL, s.store.TokenHash)
	s.owners = cache.New(cfg.TokenCacheTTL, s.store.UserByTokenHash)
	s.votes = cache.New(cfg.VoteCacheTTL, s.store.HasVoted)
	s.registerMetrics(cfg.PromRegistry)

	s.queue = queue.New(queue.Config{
		Logger:       cfg.Logger,
		PromRegistry: cfg.PromRegistry,
	})
	s.tokens.Start()
	s.owners.Start()
	s.votes.Start()

	return s, nil
}

// Close waits for queued votes to be applied, then stops the worker and the
// cache janitors.
func (s *Service) Close() {
	s.queue.Close()
	s.tokens.Stop()
	s.owners.Stop()
	s.votes.Stop()
}

// Teams exposes the registry votes are counted against
func (s *Service) Teams() *teams.Registry {
	return s.teams
}

// IssueToken creates the one token userID will ever get. The raw token is
// returned only on the Issued outcome; the caller must deliver it.
func (s *Service) IssueToken(ctx context.Context, userID string) (string, IssueOutcome, error) {
	token, outcome, err := s.issueToken(ctx, userID)
	s.metrics.tokensTotal.WithLabelValues(outcome.String()).Inc()
	return token, outcome, err
}

func (s *Service) issueToken(ctx context.Context, userID string) (string, IssueOutcome, error) {
	if userID == "" {
		return "", IssueFailed, errors.New("user id is required")
	}

	hash, err := s.tokens.Load(ctx, userID)
	if err == nil {
		s.owners.Set(hash, userID)
		return "", AlreadyIssued, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", IssueFailed, fmt.Errorf("failed to look up token: %w", err)
	}

	token, err := auth.GenerateVoterToken()
	if err != nil {
		return "", IssueFailed, err
	}
	hash = auth.HashToken(token)

	err = s.store.CreateUser(ctx, userID, hash)
	if errors.Is(err, store.ErrAlreadyExists) {
		// A concurrent request for the same user won the insert
		return "", AlreadyIssued, nil
	}
	if err != nil {
		return "", IssueFailed, fmt.Errorf("failed to store token: %w", err)
	}

	s.tokens.SetIfAbsent(userID, hash)
	s.owners.Set(hash, userID)
	s.votes.Set(userID, false)

	s.logger.Info("token issued", "user_id", userID)
	return token, Issued, nil
}

// ValidateToken reports whether token can still be used to vote. It never
// mutates state and may briefly report a stale TokenValid after a vote.
func (s *Service) ValidateToken(ctx context.Context, token string) (TokenStatus, error) {
	status, err := s.validateToken(ctx, token)
	s.metrics.validationsTotal.WithLabelValues(status.String()).Inc()
	return status, err
}

func (s *Service) validateToken(ctx context.Context, token string) (TokenStatus, error) {
	userID, err := s.resolve(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return TokenInvalid, nil
	}
	if err != nil {
		return TokenCheckFailed, err
	}

	voted, err := s.votes.Load(ctx, userID)
	if err != nil {
		return TokenCheckFailed, fmt.Errorf("failed to look up vote state: %w", err)
	}
	if voted {
		return TokenAlreadyUsed, nil
	}
	return TokenValid, nil
}

// RecordVote counts token's vote for teamName at most once. Calls are applied
// one at a time in submission order. If ctx ends before the vote is applied,
// RecordVote returns VoteFailed with ctx.Err() but the vote may still be
// counted; callers should re-check with ValidateToken.
func (s *Service) RecordVote(ctx context.Context, token, teamName string) (VoteOutcome, error) {
	result := make(chan VoteOutcome, 1)
	err := s.queue.Do(ctx, func(ctx context.Context) error {
		outcome, err := s.recordVote(ctx, token, teamName)
		result <- outcome
		return err
	})

	outcome := VoteFailed
	if err == nil {
		outcome = <-result
	}

	s.metrics.votesTotal.WithLabelValues(outcome.String()).Inc()
	return outcome, err
}

// recordVote runs on the queue worker only
func (s *Service) recordVote(ctx context.Context, token, teamName string) (VoteOutcome, error) {
	userID, err := s.resolve(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return VoteInvalidToken, nil
	}
	if err != nil {
		return VoteFailed, err
	}

	voted, err := s.votes.Load(ctx, userID)
	if err != nil {
		return VoteFailed, fmt.Errorf("failed to look up vote state: %w", err)
	}
	if voted {
		return VoteAlreadyVoted, nil
	}

	team, ok := s.teams.Get(teamName)
	if !ok {
		return VoteUnknownTeam, nil
	}

	err = s.teams.RecordVote(ctx, team, userID)
	switch {
	case errors.Is(err, store.ErrAlreadyVoted):
		// The store knew better than the cache
		s.votes.Set(userID, true)
		return VoteAlreadyVoted, nil
	case errors.Is(err, store.ErrUnknownUser):
		// Token resolved from a cache entry whose user row is gone
		s.owners.Delete(auth.HashToken(token))
		s.votes.Delete(userID)
		return VoteInvalidToken, nil
	case errors.Is(err, store.ErrNotFound):
		// Team deleted after it was resolved
		return VoteUnknownTeam, nil
	case err != nil:
		return VoteFailed, fmt.Errorf("failed to record vote: %w", err)
	}

	s.votes.Set(userID, true)
	s.logger.Info("vote recorded", "team", team.Name(), "votes", team.Votes())
	return VoteOK, nil
}

// resolve maps a raw token to its owner through the reverse index, falling
// back to the store. Returns store.ErrNotFound for unknown tokens.
func (s *Service) resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", store.ErrNotFound
	}

	userID, err := s.owners.Load(ctx, auth.HashToken(token))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}
	return userID, err
}
