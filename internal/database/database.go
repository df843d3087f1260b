// Package database provides helpers for opening the imported sqlite file and
// (outside normal service operation) applying schema migrations.
// This file has two responsibilities:
//  1. Opening a database connection using GORM (an ORM — Object Relational Mapper)
//  2. Applying SQL migration files that recreate the importer's schema
package database

import (
	"fmt"

	// The migrate package reads and applies versioned SQL migration files.
	"github.com/golang-migrate/migrate/v4"
	// Blank imports (_) register "side effects" — they register drivers with the migrate
	// library without us needing to use them directly. This is a common Go pattern.
	// This registers the sqlite3 database driver for migrate:
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	// This registers the "file://" source driver, allowing migrate to read .sql files from disk:
	_ "github.com/golang-migrate/migrate/v4/source/file"

	// gorm is an ORM (Object-Relational Mapper) for Go. It lets us work with database
	// records as Go structs instead of writing raw SQL for every operation.
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the sqlite file at the given path using GORM and returns the
// *gorm.DB handle used for all queries.
//
// Note: the sqlite driver will happily create an empty file if the path doesn't
// exist. Callers that care about "store missing" (the datasource layer does)
// must check for the file themselves before calling Connect.
func Connect(path string) (*gorm.DB, error) {
	// gorm.Open takes a dialect (sqlite) and a GORM config and returns the DB handle.
	// &gorm.Config{} is an empty config struct — we use all defaults here.
	return gorm.Open(sqlite.Open(path), &gorm.Config{})
}

// RunMigrations applies any pending "up" migrations from migrationsDir to the
// sqlite file at dbPath, recreating the same schema the boardlib import tool
// produces (climbs, climb_stats, difficulty_grades).
//
// The running service never calls this: the import tool owns the schema and all
// writes, and this API is strictly read-only. RunMigrations exists for the test
// suite (which needs fixture stores shaped like a real import) and for
// bootstrapping an empty local database during development.
func RunMigrations(dbPath, migrationsDir string) error {
	// Create a new migrator that reads .sql files from migrationsDir and applies
	// them to the sqlite file. Both arguments are URLs, hence the scheme prefixes.
	m, err := migrate.New("file://"+migrationsDir, "sqlite3://"+dbPath)
	if err != nil {
		return fmt.Errorf("open migrator: %w", err)
	}
	// Release the migrator's own sqlite connection when done: the caller is
	// about to open the same file again through GORM.
	defer func() { _, _ = m.Close() }()

	// m.Up() runs all migrations that haven't been applied yet, in order.
	// migrate.ErrNoChange is returned when there are no new migrations to run — this is
	// not a real error, so we ignore it. Any other error (bad SQL, locked file, etc.)
	// is a real problem and should be reported.
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
