package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Register the "sqlite" driver

	"github.com/belphemur/capacity-planner/internal/logging"
)

//go:embed migrations
var migrationsFS embed.FS

// DB manages the database connection
type DB struct {
	conn   *sql.DB
	logger zerolog.Logger
	dbPath string
}

// New opens the planner database. Per-connection settings travel in the DSN;
// the journal mode is applied once afterwards since it is stored in the file.
func New(opts SQLiteOptions) (*DB, error) {
	connStr := opts.buildConnectionString()
	logger := logging.GetLogger("database").With().Str("db_path", opts.Path).Logger()
	logger.Info().Str("connection_string", connStr).Msg("Opening database connection")

	conn, err := sql.Open("sqlite", connStr)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open database")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err = applyPragmas(conn, opts, logger); err != nil {
		conn.Close()
		return nil, err
	}

	if err = conn.Ping(); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database")
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info().Msg("Database connection opened")

	return &DB{conn: conn, logger: logger, dbPath: opts.Path}, nil
}

// applyPragmas sets the file-level PRAGMAs and collects every failure
func applyPragmas(conn *sql.DB, opts SQLiteOptions, logger zerolog.Logger) error {
	var errs []error

	pragmas := []struct {
		name  string
		value string
	}{
		{"journal_mode", string(opts.Journal)},
	}

	for _, p := range pragmas {
		if p.value == "" {
			continue
		}
		query := fmt.Sprintf("PRAGMA %s = %s;", p.name, p.value)
		logger.Debug().Str("pragma", p.name).Str("value", p.value).Msg("Applying PRAGMA")
		if _, err := conn.Exec(query); err != nil {
			logger.Error().Err(err).Str("pragma", p.name).Str("attempted_value", p.value).Msg("Failed to apply PRAGMA")
			errs = append(errs, fmt.Errorf("failed to apply PRAGMA %s=%s: %w", p.name, p.value, err))
		}
	}
	return errors.Join(errs...)
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// WithTransaction executes fn within a transaction. An error from fn rolls the
// transaction back; otherwise it is committed.
func (db *DB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to start database transaction")
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			db.logger.Error().Interface("panic", p).Msg("Panic occurred during transaction, rolling back")
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				db.logger.Error().Err(rollbackErr).Msg("Failed to rollback transaction during panic recovery")
			}
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		db.logger.Debug().Err(err).Msg("Transaction function returned error, rolling back")
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			db.logger.Error().Err(rollbackErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("transaction failed: %w, rollback failed: %v", err, rollbackErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error().Err(err).Msg("Failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	db.logger.Info().Msg("Closing database connection")
	if err := db.conn.Close(); err != nil {
		db.logger.Error().Err(err).Msg("Failed to close database connection")
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

// MigrateDatabase applies the embedded schema migrations
func (db *DB) MigrateDatabase() error {
	db.logger.Info().Msg("Starting database migration")

	driver, err := sqlite.WithInstance(db.conn, &sqlite.Config{})
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create database driver for migration")
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	subFS, err := fs.Sub(migrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("failed to create sub-filesystem: %w", err)
	}
	sourceInstance, err := iofs.New(subFS, ".")
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create embedded file source for migration")
		return fmt.Errorf("failed to create embedded file source: %w", err)
	}

	// m.Close is never called: it would close the shared *sql.DB
	m, err := migrate.NewWithInstance("iofs", sourceInstance, "sqlite", driver)
	if err != nil {
		db.logger.Error().Err(err).Msg("Failed to create migrator instance")
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	db.logger.Info().Uint("current_version", currentVersion).Bool("dirty", dirty).Msg("Current database migration version")

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			db.logger.Info().Msg("No new migrations to apply")
			return nil
		}
		db.logger.Error().Err(err).Msg("Failed to apply migrations")
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		db.logger.Warn().Err(err).Msg("Failed to read migration version after applying migrations")
		return nil
	}
	db.logger.Info().Uint("previous_version", currentVersion).Uint("new_version", newVersion).Msg("Migrations applied successfully")
	return nil
}

// Version returns the applied schema version
func (db *DB) Version(ctx context.Context) (int, error) {
	var version int
	err := db.conn.QueryRowContext(ctx, "SELECT version FROM schema_migrations LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
