// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package teams

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/danielhkuo/team-election/store"
)

const MaxNameLength = 50

var ErrInvalidName = errors.New("team name must be 1-50 characters")

// Team is the in-memory record of a team. The counter is only ever moved by
// Registry.RecordVote.
type Team struct {
	name  string
	votes atomic.Int64
}

func (t *Team) Name() string {
	return t.name
}

func (t *Team) Votes() int64 {
	return t.votes.Load()
}

// Registry holds every team in memory, backed by the store
type Registry struct {
	store store.Store

	mu    sync.RWMutex
	teams map[string]*Team
}

// Load reads all teams from the store into a new registry
func Load(ctx context.Context, st store.Store) (*Registry, error) {
	rows, err := st.LoadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load teams: %w", err)
	}

	r := &Registry{
		store: st,
		teams: make(map[string]*Team, len(rows)),
	}
	for _, row := range rows {
		r.teams[row.Name] = newTeam(row.Name, row.Votes)
	}
	return r, nil
}

func newTeam(name string, votes int64) *Team {
	t := &Team{name: name}
	t.votes.Store(votes)
	return t
}

// normalizeName trims surrounding whitespace; names are otherwise case sensitive
func normalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Get resolves a team by name
func (r *Registry) Get(name string) (*Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[normalizeName(name)]
	return t, ok
}

// List returns all teams ordered by votes, highest first, then by name
func (r *Registry) List() []*Team {
	r.mu.RLock()
	list := make([]*Team, 0, len(r.teams))
	for _, t := range r.teams {
		list = append(list, t)
	}
	r.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Team) int {
		if c := cmp.Compare(b.Votes(), a.Votes()); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	return list
}

// Register returns the team called name, creating and persisting it with zero
// votes if it does not exist yet.
func (r *Registry) Register(ctx context.Context, name string) (*Team, error) {
	name = normalizeName(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.teams[name]; ok {
		return t, nil
	}

	err := r.store.CreateTeam(ctx, name)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Row exists without being loaded; adopt the persisted tally
		return r.adoptLocked(ctx, name)
	}
	if err != nil {
		return nil, err
	}

	t := newTeam(name, 0)
	r.teams[name] = t
	return t, nil
}

func (r *Registry) adoptLocked(ctx context.Context, name string) (*Team, error) {
	rows, err := r.store.LoadTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reload teams: %w", err)
	}
	for _, row := range rows {
		if row.Name == name {
			t := newTeam(row.Name, row.Votes)
			r.teams[name] = t
			return t, nil
		}
	}
	return nil, store.ErrNotFound
}

// Delete removes the team from the store and the registry. Callers already
// holding the *Team keep a valid value, but it is no longer reachable by name.
func (r *Registry) Delete(ctx context.Context, name string) error {
	name = normalizeName(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.DeleteTeam(ctx, name); err != nil {
		return err
	}
	delete(r.teams, name)
	return nil
}

// RecordVote increments the team counter and persists the new total together
// with the user's voted flag. The in-memory counter is incremented first so it
// is never behind the store; it is rolled back if the store write fails.
//
// Callers must serialize RecordVote calls; the service does so through its
// mutation queue.
func (r *Registry) RecordVote(ctx context.Context, t *Team, userID string) error {
	total := t.votes.Add(1)
	if err := r.store.RecordVote(ctx, userID, t.name, total); err != nil {
		t.votes.Add(-1)
		return err
	}
	return nil
}
