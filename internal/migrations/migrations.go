// Package migrations embeds and applies the PostgreSQL schema of the
// persistent result cache.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var MigrationFiles embed.FS

func newMigrator(db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	target, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("prepare postgres migration driver: %w", err)
	}

	return migrate.NewWithInstance("iofs", source, "postgres", target)
}

// RunMigrations brings the result cache schema up to date. With autoMigrate
// off it only logs the version found. A dirty version is forced clean first;
// the migrations use IF [NOT] EXISTS and can be replayed.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}

	current, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		current, dirty = 0, false
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	}

	if dirty {
		slog.Warn("[Migrations] Schema left dirty by an interrupted migration, forcing", "version", current)
		if err := m.Force(int(current)); err != nil {
			return fmt.Errorf("force schema version %d: %w", current, err)
		}
	}

	if !autoMigrate {
		slog.Info("[Migrations] Auto-migration disabled", "version", current, "dirty", dirty)
		return nil
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("[Migrations] Schema up to date", "version", current)
		return nil
	}
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	applied, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("[Migrations] Schema migrated", "from", current, "to", applied)
	return nil
}
