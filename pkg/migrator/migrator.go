// Package migrator applies the goose migrations of each bounded context.
package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"regexp"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"

	"github.com/ghuser/workcosts/pkg/logger"
)

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Source is one bounded context's migrations. Each context records its
// versions in its own table so contexts migrate independently.
type Source struct {
	Name         string
	VersionTable string
	FS           fs.FS
}

func (s Source) validate() error {
	if s.Name == "" {
		return errors.New("migration source without a name")
	}
	if !tableName.MatchString(s.VersionTable) {
		return fmt.Errorf("%s: invalid version table %q", s.Name, s.VersionTable)
	}
	if s.FS == nil {
		return fmt.Errorf("%s: no migration files", s.Name)
	}
	return nil
}

// Run applies all pending migrations of every source, in order, holding a
// Postgres advisory lock so concurrent runs do not interleave.
func Run(ctx context.Context, dbURL string, log logger.Logger, sources ...Source) error {
	for _, src := range sources {
		if err := src.validate(); err != nil {
			return err
		}
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	for _, src := range sources {
		if err := up(ctx, db, log, src); err != nil {
			return err
		}
	}
	return nil
}

func up(ctx context.Context, db *sql.DB, log logger.Logger, src Source) error {
	store, err := database.NewStore(database.DialectPostgres, src.VersionTable)
	if err != nil {
		return fmt.Errorf("%s: version store: %w", src.Name, err)
	}
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return fmt.Errorf("%s: session locker: %w", src.Name, err)
	}
	provider, err := goose.NewProvider("", db, src.FS,
		goose.WithStore(store),
		goose.WithSessionLocker(locker),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("%s: migration provider: %w", src.Name, err)
	}

	results, err := provider.Up(ctx)
	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			"context", src.Name,
			"version", r.Source.Version,
			"duration_ms", r.Duration.Milliseconds(),
		)
	}
	if err != nil {
		return fmt.Errorf("%s: migrate up: %w", src.Name, err)
	}
	if len(results) == 0 {
		log.InfoContext(ctx, "migrations up to date", "context", src.Name)
	}
	return nil
}
