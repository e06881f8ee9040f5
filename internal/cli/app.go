// Package cli exposes the planner as cobra commands rendering to a terminal.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/belphemur/capacity-planner/internal/config"
	"github.com/belphemur/capacity-planner/internal/database"
	"github.com/belphemur/capacity-planner/internal/dataset"
	"github.com/belphemur/capacity-planner/internal/logging"
	"github.com/belphemur/capacity-planner/internal/planner"
	"github.com/belphemur/capacity-planner/internal/signals"
	"github.com/belphemur/capacity-planner/internal/store"
	"github.com/belphemur/capacity-planner/internal/viewport"
)

const (
	listenerKey = "cli"
	// clientWidth is the pixel width the headless timeline pretends to have
	clientWidth = 1280
)

// App holds what every command needs
type App struct {
	Config *config.Config
	DB     *database.DB
	Store  *store.Store
	logger zerolog.Logger
}

// Open creates the data directory, migrates the database, seeds it from the
// configured import file on first run and loads the store
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.GetLogger("cli")

	if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	states := database.NewStateStore(db)
	if cfg.Data.ImportFile != "" {
		seeder := database.NewSeeder(states)
		seeded, err := seeder.SeedIfEmpty(ctx, func(context.Context) (planner.State, error) {
			return dataset.ReadFile(cfg.Data.ImportFile)
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed database: %w", err)
		}
		if seeded {
			logger.Info().Str("file", cfg.Data.ImportFile).Msg("Seeded planner from import file")
		}
	}

	st := store.New(states)
	if err := st.Load(ctx); err != nil {
		db.Close()
		return nil, err
	}

	app := &App{Config: cfg, DB: db, Store: st, logger: logger}
	app.subscribe()
	return app, nil
}

func (a *App) subscribe() {
	signals.OnAssignmentChanged(func(ctx context.Context, data signals.AssignmentChangedData) {
		a.logger.Debug().
			Str("kind", string(data.Kind)).
			Str("assignment_id", data.Assignment.ID).
			Str("person_id", data.Assignment.PersonID).
			Str("project_id", data.Assignment.ProjectID).
			Msg("Assignment changed")
	}, listenerKey)
	signals.OnEntityChanged(func(ctx context.Context, data signals.EntityChangedData) {
		a.logger.Debug().
			Str("kind", string(data.Kind)).
			Str("entity", data.Entity).
			Str("id", data.ID).
			Msg("Entity changed")
	}, listenerKey)
}

// Close detaches listeners and closes the database
func (a *App) Close() error {
	signals.RemoveListeners(listenerKey)
	return a.DB.Close()
}

// window builds a headless timeline from the persisted view. Without a stored
// window it fits the window around the data.
func (a *App) window(st planner.State) *viewport.Model {
	m, _ := viewport.NewHeadless(a.Config.ViewportOptions(), clientWidth)
	v := config.ResolveView(a.Config, a.Store)
	if v.Start.IsZero() || v.Days == 0 {
		m.FitToAssignments(a.Config.Today(), st.Assignments)
	}
	m.Restore(v)
	return m
}
