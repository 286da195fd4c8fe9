// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
	ErrAlreadyVoted  = errors.New("user already voted")
	ErrUnknownUser   = errors.New("user not found")
)

// Team is a persisted team tally
type Team struct {
	Name  string
	Votes int64
}

// Store is the durable source of truth for users and team tallies.
type Store interface {
	// CreateUser inserts a user row with voted=false. Returns ErrAlreadyExists
	// if a row for userID is already present.
	CreateUser(ctx context.Context, userID, tokenHash string) error
	TokenHash(ctx context.Context, userID string) (string, error)
	UserByTokenHash(ctx context.Context, tokenHash string) (string, error)
	HasVoted(ctx context.Context, userID string) (bool, error)
	// RecordVote flips voted for userID and stores the new team total in one
	// transaction. Returns ErrAlreadyVoted if the user had voted before,
	// ErrUnknownUser if the user row does not exist and ErrNotFound if the
	// team row does not exist.
	RecordVote(ctx context.Context, userID, team string, total int64) error

	LoadTeams(ctx context.Context) ([]Team, error)
	CreateTeam(ctx context.Context, name string) error
	DeleteTeam(ctx context.Context, name string) error
}

// SQL implements Store on top of a database/sql pool. Statements use $N
// placeholders, which both lib/pq and modernc sqlite accept.
type SQL struct {
	db *sql.DB
}

func NewSQL(db *sql.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) CreateUser(ctx context.Context, userID, tokenHash string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, token_hash, voted)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQL) TokenHash(ctx context.Context, userID string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT token_hash FROM users WHERE user_id = $1
	`, userID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query token hash: %w", err)
	}
	return hash, nil
}

func (s *SQL) UserByTokenHash(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM users WHERE token_hash = $1
	`, tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query user by token: %w", err)
	}
	return userID, nil
}

func (s *SQL) HasVoted(ctx context.Context, userID string) (bool, error) {
	var voted bool
	err := s.db.QueryRowContext(ctx, `
		SELECT voted FROM users WHERE user_id = $1
	`, userID).Scan(&voted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to query vote state: %w", err)
	}
	return voted, nil
}

func (s *SQL) RecordVote(ctx context.Context, userID, team string, total int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Conditional update: only a user that has not voted yet can flip
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET voted = TRUE WHERE user_id = $1 AND voted = FALSE
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as voted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)
		`, userID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query user: %w", err)
		}
		if !exists {
			return ErrUnknownUser
		}
		return ErrAlreadyVoted
	}

	res, err = tx.ExecContext(ctx, `
		UPDATE teams SET votes = $1 WHERE name = $2
	`, total, team)
	if err != nil {
		return fmt.Errorf("failed to update team votes: %w", err)
	}
	if n, err = res.RowsAffected(); err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (s *SQL) LoadTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, votes FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.Name, &t.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}
	return teams, nil
}

func (s *SQL) CreateTeam(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (name, votes) VALUES ($1, 0)
		ON CONFLICT (name) DO NOTHING
	`, name)
	if err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (s *SQL) DeleteTeam(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}
