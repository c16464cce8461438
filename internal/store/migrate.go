package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// 001_description.up.sql or 001_description.down.sql
var migrationName = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// Migration is one versioned schema change for the SQLite backend.
type Migration struct {
	Version     int
	Description string
	UpSQL       string
	DownSQL     string
}

// Migrator applies embedded migrations to a SQLite database.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

// LoadMigrations returns the embedded migrations ordered by version.
func (m *Migrator) LoadMigrations() ([]Migration, error) {
	migrations := make(map[int]*Migration)

	err := fs.WalkDir(migrationsFS, "migrations", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		matches := migrationName.FindStringSubmatch(path.Base(p))
		if len(matches) != 4 {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])

		content, err := migrationsFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", p, err)
		}

		mig, ok := migrations[version]
		if !ok {
			mig = &Migration{Version: version, Description: strings.ReplaceAll(matches[2], "_", " ")}
			migrations[version] = mig
		}

		if matches[3] == "up" {
			mig.UpSQL = string(content)
		} else {
			mig.DownSQL = string(content)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking migrations: %w", err)
	}

	result := make([]Migration, 0, len(migrations))
	for _, mig := range migrations {
		result = append(result, *mig)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Version < result[j].Version
	})

	return result, nil
}

// CurrentVersion returns the highest applied version, 0 for a new database.
func (m *Migrator) CurrentVersion() (int, error) {
	var tableName string

	err := m.db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_migrations'
	`).Scan(&tableName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("checking schema_migrations table: %w", err)
	}

	var version int
	if err := m.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version); err != nil {
		return 0, fmt.Errorf("getting current version: %w", err)
	}

	return version, nil
}

// MigrateUp applies all pending migrations.
func (m *Migrator) MigrateUp() error {
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}

	for _, mig := range pending {
		if mig.UpSQL == "" {
			return fmt.Errorf("migration %d has no up SQL", mig.Version)
		}

		if err := m.runMigration(mig.UpSQL); err != nil {
			return fmt.Errorf("applying migration %d (%s): %w", mig.Version, mig.Description, err)
		}
	}

	return nil
}

// PendingMigrations returns migrations that have not been applied.
func (m *Migrator) PendingMigrations() ([]Migration, error) {
	migrations, err := m.LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("loading migrations: %w", err)
	}

	current, err := m.CurrentVersion()
	if err != nil {
		return nil, err
	}

	var pending []Migration

	for _, mig := range migrations {
		if mig.Version > current {
			pending = append(pending, mig)
		}
	}

	return pending, nil
}

func (m *Migrator) runMigration(script string) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if _, err := tx.Exec(script); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("executing migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
