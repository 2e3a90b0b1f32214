package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a schema change applied at startup
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_hazard_zones",
		SQL: `
			CREATE TABLE IF NOT EXISTS hazard_zones (
				id TEXT PRIMARY KEY,
				lat REAL NOT NULL,
				lon REAL NOT NULL,
				radius_m REAL NOT NULL,
				level INTEGER NOT NULL,
				name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				seq INTEGER
			)
		`,
	},
	{
		Version: 2,
		Name:    "create_meta",
		SQL: `
			CREATE TABLE IF NOT EXISTS meta (
				key TEXT PRIMARY KEY,
				value INTEGER NOT NULL
			);
			INSERT OR IGNORE INTO meta (key, value) VALUES ('hazard_version', 0);
			INSERT OR IGNORE INTO meta (key, value) VALUES ('hazard_seq', 0);
		`,
	},
}

// Migrate applies all pending migrations in order
func Migrate(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		err := Transaction(db, func(tx *sql.Tx) error {
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
			}
			if _, err := tx.Exec(
				"INSERT INTO migrations (version, name) VALUES (?, ?)",
				m.Version, m.Name,
			); err != nil {
				return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		log.Printf("Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}
