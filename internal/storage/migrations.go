package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS provider_records (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					primary_document TEXT NOT NULL,
					name TEXT NOT NULL,
					company TEXT,
					clearance_status TEXT NOT NULL,
					cadastro_state TEXT NOT NULL,
					valid_until DATETIME,
					evaluated_on DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_provider_records_primary ON provider_records(primary_document)`,

				`CREATE TABLE IF NOT EXISTS requests (
					id TEXT PRIMARY KEY,
					requested_by TEXT NOT NULL,
					company TEXT,
					access_start DATETIME NOT NULL,
					access_end DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS request_providers (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					request_id TEXT NOT NULL,
					name TEXT NOT NULL,
					primary_document TEXT,
					secondary_document TEXT,
					company_override TEXT,
					FOREIGN KEY (request_id) REFERENCES requests(id)
				)`,
				`CREATE INDEX idx_request_providers_request ON request_providers(request_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add secondary document column to provider records",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE provider_records ADD COLUMN secondary_document TEXT`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Add savings ledger",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS savings_entries (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					request_id TEXT,
					provider_name TEXT NOT NULL,
					document TEXT,
					kind TEXT NOT NULL,
					amount REAL NOT NULL,
					explanation TEXT,
					recorded_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_savings_entries_recorded ON savings_entries(recorded_at)`,
				`CREATE INDEX idx_savings_entries_kind ON savings_entries(kind)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations, then probes the resulting
// schema capabilities.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return s.probeCapabilities(ctx)
}
