package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/calendar"
	"github.com/belphemur/capacity-planner/internal/constants"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// StateStore persists the planner document in SQLite
type StateStore struct {
	db     *DB
	logger zerolog.Logger
}

// NewStateStore creates a new state store over a migrated database
func NewStateStore(db *DB) *StateStore {
	return &StateStore{db: db, logger: logging.GetLogger("state-store")}
}

// Load reads every entity and the view state
func (s *StateStore) Load(ctx context.Context) (planner.State, error) {
	state := planner.State{}.Clone()
	conn := s.db.Conn()

	people, err := conn.QueryContext(ctx, `SELECT id, name, avatar FROM people ORDER BY position, rowid`)
	if err != nil {
		return planner.State{}, fmt.Errorf("failed to query people: %w", err)
	}
	for people.Next() {
		var p planner.Person
		if err := people.Scan(&p.ID, &p.Name, &p.Avatar); err != nil {
			people.Close()
			return planner.State{}, fmt.Errorf("failed to scan person: %w", err)
		}
		state.People = append(state.People, p)
	}
	if err := closeRows(people); err != nil {
		return planner.State{}, fmt.Errorf("failed to read people: %w", err)
	}

	projects, err := conn.QueryContext(ctx, `SELECT id, name, color, emoji, estimated_days FROM projects ORDER BY position, rowid`)
	if err != nil {
		return planner.State{}, fmt.Errorf("failed to query projects: %w", err)
	}
	for projects.Next() {
		var p planner.Project
		if err := projects.Scan(&p.ID, &p.Name, &p.Color, &p.Emoji, &p.EstimatedDays); err != nil {
			projects.Close()
			return planner.State{}, fmt.Errorf("failed to scan project: %w", err)
		}
		state.Projects = append(state.Projects, p)
	}
	if err := closeRows(projects); err != nil {
		return planner.State{}, fmt.Errorf("failed to read projects: %w", err)
	}

	assignments, err := conn.QueryContext(ctx, `
		SELECT id, person_id, project_id, start_date, end_date, allocation, subtitle
		FROM assignments
		ORDER BY position, rowid`)
	if err != nil {
		return planner.State{}, fmt.Errorf("failed to query assignments: %w", err)
	}
	for assignments.Next() {
		var a planner.Assignment
		var alloc float64
		if err := assignments.Scan(&a.ID, &a.PersonID, &a.ProjectID, &a.Start, &a.End, &alloc, &a.Subtitle); err != nil {
			assignments.Close()
			return planner.State{}, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.Allocation = constants.Allocation(alloc)
		state.Assignments = append(state.Assignments, a)
	}
	if err := closeRows(assignments); err != nil {
		return planner.State{}, fmt.Errorf("failed to read assignments: %w", err)
	}

	view, err := s.loadView(ctx)
	if err != nil {
		return planner.State{}, err
	}
	state.View = view

	s.logger.Debug().
		Int("people", len(state.People)).
		Int("projects", len(state.Projects)).
		Int("assignments", len(state.Assignments)).
		Msg("Planner state read from database")
	return state, nil
}

func (s *StateStore) loadView(ctx context.Context) (planner.ViewState, error) {
	var v planner.ViewState
	var mode string
	var start calendar.Date
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT mode, start_date, days, px_per_day, selected_id
		FROM view_state
		WHERE id = 1`).Scan(&mode, &start, &v.Days, &v.PxPerDay, &v.SelectedID)
	if errors.Is(err, sql.ErrNoRows) {
		return planner.ViewState{Mode: constants.ViewModePerson}, nil
	}
	if err != nil {
		return planner.ViewState{}, fmt.Errorf("failed to read view state: %w", err)
	}

	v.Mode, err = constants.ParseViewMode(mode)
	if err != nil {
		s.logger.Warn().Str("mode", mode).Msg("Unknown view mode in database, using person")
		v.Mode = constants.ViewModePerson
	}
	v.Start = start
	return v, nil
}

// Save replaces the stored document with state in a single transaction
func (s *StateStore) Save(ctx context.Context, state planner.State) error {
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM assignments`,
			`DELETE FROM projects`,
			`DELETE FROM people`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		for i, p := range state.People {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO people (id, name, avatar, position) VALUES (?, ?, ?, ?)`,
				p.ID, p.Name, p.Avatar, i); err != nil {
				return fmt.Errorf("failed to insert person %s: %w", p.ID, err)
			}
		}
		for i, p := range state.Projects {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO projects (id, name, color, emoji, estimated_days, position) VALUES (?, ?, ?, ?, ?, ?)`,
				p.ID, p.Name, p.Color, p.Emoji, p.EstimatedDays, i); err != nil {
				return fmt.Errorf("failed to insert project %s: %w", p.ID, err)
			}
		}
		for i, a := range state.Assignments {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO assignments (id, person_id, project_id, start_date, end_date, allocation, subtitle, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, a.PersonID, a.ProjectID, a.Start, a.End, a.Allocation.Float(), a.Subtitle, i); err != nil {
				return fmt.Errorf("failed to insert assignment %s: %w", a.ID, err)
			}
		}

		mode := state.View.Mode
		if mode == "" {
			mode = constants.ViewModePerson
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO view_state (id, mode, start_date, days, px_per_day, selected_id)
			VALUES (1, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				mode = excluded.mode,
				start_date = excluded.start_date,
				days = excluded.days,
				px_per_day = excluded.px_per_day,
				selected_id = excluded.selected_id`,
			mode.String(), state.View.Start, state.View.Days, state.View.PxPerDay, state.View.SelectedID); err != nil {
			return fmt.Errorf("failed to save view state: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to save planner state")
		return err
	}

	s.logger.Debug().Int("assignments", len(state.Assignments)).Msg("Planner state saved")
	return nil
}

// HasData reports whether any person or project is stored
func (s *StateStore) HasData(ctx context.Context) (bool, error) {
	var count int
	err := s.db.Conn().QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM people) + (SELECT COUNT(*) FROM projects)`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count stored entities: %w", err)
	}
	return count > 0, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
