package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
)

// SourceFunc produces the document used to seed an empty database
type SourceFunc func(ctx context.Context) (planner.State, error)

// Seeder fills an empty database from an external document, e.g. the
// configured import file. A database that already holds data is left alone.
type Seeder struct {
	store  *StateStore
	logger zerolog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(store *StateStore) *Seeder {
	return &Seeder{store: store, logger: logging.GetLogger("seeder")}
}

// SeedIfEmpty loads the source into the database on first run.
// Returns true when the database was seeded.
func (s *Seeder) SeedIfEmpty(ctx context.Context, source SourceFunc) (bool, error) {
	hasData, err := s.store.HasData(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check existing data: %w", err)
	}
	if hasData {
		s.logger.Info().Msg("Database already holds planner data, skipping seeding")
		return false, nil
	}

	state, err := source(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read seed document: %w", err)
	}
	if err := s.store.Save(ctx, state); err != nil {
		return false, fmt.Errorf("failed to seed database: %w", err)
	}

	s.logger.Info().
		Int("people", len(state.People)).
		Int("projects", len(state.Projects)).
		Int("assignments", len(state.Assignments)).
		Msg("Database seeded")
	return true, nil
}
