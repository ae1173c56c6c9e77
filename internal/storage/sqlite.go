// Package storage provides the SQLite persistence layer: historical provider
// records, access requests, and the savings ledger.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/abarros/triagem/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	caps   service.SchemaCapabilities
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Capabilities reports what the current record schema supports. Resolved by
// probeCapabilities during Migrate; zero value (no secondary column) until
// then.
func (s *SQLiteStorage) Capabilities() service.SchemaCapabilities {
	return s.caps
}

// probeCapabilities inspects the provider_records table once. Databases
// created before the secondary-document migration, or restored from old
// backups, only carry the primary column; matching then degrades to a
// single-column select, which is silent to business results but must be
// visible in the logs.
func (s *SQLiteStorage) probeCapabilities(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(provider_records)")
	if err != nil {
		return fmt.Errorf("failed to probe provider_records schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hasSecondary bool
	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if scanErr := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); scanErr != nil {
			return fmt.Errorf("failed to scan schema row: %w", scanErr)
		}
		if name == "secondary_document" {
			hasSecondary = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read schema rows: %w", err)
	}

	s.caps = service.SchemaCapabilities{SecondaryDocument: hasSecondary}
	if !hasSecondary {
		slog.Warn("provider_records has no secondary_document column, degrading to single-column matching",
			"db_path", s.dbPath)
	}
	return nil
}

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}
