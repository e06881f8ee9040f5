// Package store holds the planner entities in memory and persists every
// mutation through a Repository.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/dragcreate"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/signals"
)

var (
	// ErrNotFound is returned when an ID does not match any entity
	ErrNotFound = errors.New("not found")
	// ErrDuplicateName is returned when a person or project name is already taken
	ErrDuplicateName = errors.New("name already exists")
	// ErrInvalidAllocation is returned for allocations outside the supported steps
	ErrInvalidAllocation = errors.New("invalid allocation")
	// ErrNotLoaded is returned when the store is used before Load
	ErrNotLoaded = errors.New("store not loaded")
)

// Repository persists a whole planner document
type Repository interface {
	Load(ctx context.Context) (planner.State, error)
	Save(ctx context.Context, state planner.State) error
}

// Store is the single owner of planner entities. Construct it explicitly and
// inject it where needed; its lifecycle is Load, mutate, Clear.
type Store struct {
	mu     sync.RWMutex
	state  planner.State
	loaded bool
	repo   Repository
	newID  func() string
	logger zerolog.Logger
}

// New creates a store. repo may be nil for a purely in-memory store.
func New(repo Repository) *Store {
	return &Store{
		repo:   repo,
		newID:  uuid.NewString,
		logger: logging.GetLogger("store"),
	}
}

// Load reads the persisted document, or starts empty without a repository
func (s *Store) Load(ctx context.Context) error {
	state := planner.State{}
	if s.repo != nil {
		loaded, err := s.repo.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to load planner state: %w", err)
		}
		state = loaded
	}

	s.mu.Lock()
	s.state = state.Clone()
	s.loaded = true
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().
		Int("people", len(snapshot.People)).
		Int("projects", len(snapshot.Projects)).
		Int("assignments", len(snapshot.Assignments)).
		Msg("Planner state loaded")
	signals.EmitStateReplaced(ctx, snapshot)
	return nil
}

// Replace swaps the whole document, e.g. after an import
func (s *Store) Replace(ctx context.Context, state planner.State) error {
	return s.swap(ctx, state.Clone())
}

// Clear drops every entity and resets the view
func (s *Store) Clear(ctx context.Context) error {
	return s.swap(ctx, planner.State{}.Clone())
}

func (s *Store) swap(ctx context.Context, next planner.State) error {
	s.mu.Lock()
	prev, wasLoaded := s.state, s.loaded
	s.state = next
	s.loaded = true
	if err := s.persistLocked(ctx); err != nil {
		s.state, s.loaded = prev, wasLoaded
		s.mu.Unlock()
		return err
	}
	snapshot := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info().Int("assignments", len(snapshot.Assignments)).Msg("Planner state replaced")
	signals.EmitStateReplaced(ctx, snapshot)
	return nil
}

// Snapshot returns a copy of the whole document for read-only use
func (s *Store) Snapshot() planner.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// View returns the persisted view state
func (s *Store) View() planner.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.View
}

// SetView persists the view state
func (s *Store) SetView(ctx context.Context, v planner.ViewState) error {
	if v.Mode != "" && !v.Mode.IsValid() {
		return fmt.Errorf("invalid view mode: %s", v.Mode)
	}
	err := s.mutate(ctx, func(st *planner.State) error {
		st.View = v
		return nil
	})
	if err != nil {
		return err
	}
	signals.EmitViewChanged(ctx, v)
	return nil
}

// mutate applies fn under the write lock and persists the result, rolling back
// the in-memory state if persistence fails
func (s *Store) mutate(ctx context.Context, fn func(st *planner.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}

	prev := s.state.Clone()
	if err := fn(&s.state); err != nil {
		s.state = prev
		return err
	}
	if err := s.persistLocked(ctx); err != nil {
		s.state = prev
		return err
	}
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("failed to save planner state: %w", err)
	}
	return nil
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func hasPerson(st *planner.State, id string) bool {
	for _, p := range st.People {
		if p.ID == id {
			return true
		}
	}
	return false
}

func hasProject(st *planner.State, id string) bool {
	if constants.IsTimeOff(id) {
		return true
	}
	for _, p := range st.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// normalizeRange swaps inverted bounds so start <= end
func normalizeRange(start, end calendar.Date) (calendar.Date, calendar.Date) {
	r := calendar.ClampDateRange(start, end)
	return r.Start, r.End
}

// CreateFromCandidate materialises a committed drag-to-create gesture
func (s *Store) CreateFromCandidate(ctx context.Context, c dragcreate.Candidate) (planner.Assignment, error) {
	a := c.ToAssignment("")
	return s.CreateAssignment(ctx, AssignmentInput{
		PersonID:   a.PersonID,
		ProjectID:  a.ProjectID,
		Start:      a.Start,
		End:        a.End,
		Allocation: a.Allocation,
	})
}
