package database

import (
	"database/sql"
	"fmt"
	"log"
)

// migrate brings the learning database schema up to the latest version,
// tracked in PRAGMA user_version.
func migrate(conn *sql.DB) error {
	current, err := schemaVersion(conn)
	if err != nil {
		return err
	}

	// A database with a user_preferences table but user_version 0 predates
	// the migration system; its schema already matches version 1.
	if current == 0 {
		var legacyTables int
		err := conn.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='user_preferences'",
		).Scan(&legacyTables)
		if err != nil {
			return fmt.Errorf("checking for legacy tables: %w", err)
		}
		if legacyTables > 0 {
			log.Printf("detected legacy database, stamping as version 1")
			if err := stampVersion(conn, 1); err != nil {
				return err
			}
			current = 1
		}
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := applyMigration(conn, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(conn *sql.DB, m Migration) error {
	log.Printf("applying migration %d: %s", m.Version, m.Description)

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", m.Version, err)
	}
	if err := m.Up(tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", m.Version, err)
	}

	// PRAGMA user_version cannot run inside the transaction under
	// modernc/sqlite. A crash between commit and stamp is fine: the DDL is
	// idempotent and the migration re-runs.
	return stampVersion(conn, m.Version)
}

func schemaVersion(conn *sql.DB) (int, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func stampVersion(conn *sql.DB, version int) error {
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("setting schema version %d: %w", version, err)
	}
	return nil
}
