// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/team-election/testutil"
)

func TestSQL_CreateUser(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	require.NoError(t, s.CreateUser(ctx, "u1", "hash1"))
	assert.ErrorIs(t, s.CreateUser(ctx, "u1", "hash2"), ErrAlreadyExists)

	hash, err := s.TokenHash(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash1", hash, "token hash must never change")

	userID, err := s.UserByTokenHash(ctx, "hash1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	voted, err := s.HasVoted(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, voted)
}

func TestSQL_Lookups_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	_, err := s.TokenHash(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UserByTokenHash(ctx, "nohash")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.HasVoted(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQL_RecordVote(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	require.NoError(t, s.CreateUser(ctx, "u1", "hash1"))
	require.NoError(t, s.CreateTeam(ctx, "Red"))

	require.NoError(t, s.RecordVote(ctx, "u1", "Red", 1))

	voted, err := s.HasVoted(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, voted)

	teams, err := s.LoadTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Team{{Name: "Red", Votes: 1}}, teams)

	// second vote is rejected and the tally is untouched
	assert.ErrorIs(t, s.RecordVote(ctx, "u1", "Red", 2), ErrAlreadyVoted)
	teams, err = s.LoadTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), teams[0].Votes)
}

func TestSQL_RecordVote_RollsBackOnMissingTeam(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	require.NoError(t, s.CreateUser(ctx, "u1", "hash1"))

	assert.ErrorIs(t, s.RecordVote(ctx, "u1", "Ghost", 1), ErrNotFound)

	voted, err := s.HasVoted(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, voted, "voted flag must roll back with the failed team update")
}

func TestSQL_RecordVote_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	require.NoError(t, s.CreateTeam(ctx, "Red"))
	err := s.RecordVote(ctx, "nobody", "Red", 1)
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSQL_Teams(t *testing.T) {
	ctx := context.Background()
	s := NewSQL(testutil.SetupTestDB(t))

	teams, err := s.LoadTeams(ctx)
	require.NoError(t, err)
	assert.Empty(t, teams)

	require.NoError(t, s.CreateTeam(ctx, "Red"))
	require.NoError(t, s.CreateTeam(ctx, "Blue"))
	assert.ErrorIs(t, s.CreateTeam(ctx, "Red"), ErrAlreadyExists)

	teams, err = s.LoadTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Team{{Name: "Blue"}, {Name: "Red"}}, teams)

	require.NoError(t, s.DeleteTeam(ctx, "Red"))
	require.NoError(t, s.DeleteTeam(ctx, "Red"), "deleting a missing team is a no-op")

	teams, err = s.LoadTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Team{{Name: "Blue"}}, teams)
}

func TestSQL_ClosedPool(t *testing.T) {
	ctx := context.Background()
	conn := testutil.SetupTestDB(t)
	s := NewSQL(conn)
	conn.Close()

	_, err := s.TokenHash(ctx, "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
