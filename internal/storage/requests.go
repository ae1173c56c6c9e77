package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abarros/triagem/internal/common"
	"github.com/abarros/triagem/internal/model"
)

// SaveSubmission persists an accepted request together with its savings
// entries in one transaction. A nil request records pure savings: the whole
// batch was avoided work, so nothing gets submitted.
func (s *SQLiteStorage) SaveSubmission(ctx context.Context, request *model.AccessRequest, savings []model.SavingsEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if request == nil && len(savings) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if request != nil {
		if err := saveRequestTx(ctx, tx, request); err != nil {
			return err
		}
	}
	if err := saveSavingsTx(ctx, tx, request, savings); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	return nil
}

func saveRequestTx(ctx context.Context, tx *sql.Tx, request *model.AccessRequest) error {
	if err := validateString(request.ID, "request.ID"); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO requests
		(id, requested_by, company, access_start, access_end)
		VALUES (?, ?, ?, ?, ?)`,
		request.ID, request.RequestedBy, request.Company,
		request.AccessStart, request.AccessEnd); err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}

	for _, p := range request.Providers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO request_providers
			(request_id, name, primary_document, secondary_document, company_override)
			VALUES (?, ?, ?, ?, ?)`,
			request.ID, p.Name, p.PrimaryDocument, p.SecondaryDocument, p.CompanyOverride); err != nil {
			return fmt.Errorf("failed to insert request provider %q: %w", p.Name, err)
		}
	}
	return nil
}

func saveSavingsTx(ctx context.Context, tx *sql.Tx, request *model.AccessRequest, savings []model.SavingsEntry) error {
	for _, entry := range savings {
		requestID := entry.RequestID
		if requestID == "" && request != nil {
			requestID = request.ID
		}
		var requestRef any
		if requestID != "" {
			requestRef = requestID
		}
		recordedAt := entry.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now()
		}
		// Stored in UTC so period queries compare consistently.
		if _, err := tx.ExecContext(ctx, `INSERT INTO savings_entries
			(request_id, provider_name, document, kind, amount, explanation, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			requestRef, entry.ProviderName, entry.Document,
			entry.Kind, entry.Amount, entry.Explanation, recordedAt.UTC()); err != nil {
			return fmt.Errorf("failed to insert savings entry for %q: %w", entry.ProviderName, err)
		}
	}
	return nil
}

// GetRequestByID loads one request and its provider rows.
func (s *SQLiteStorage) GetRequestByID(ctx context.Context, id string) (*model.AccessRequest, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	request := &model.AccessRequest{}
	var company sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT id, requested_by, company, access_start, access_end, created_at
		FROM requests WHERE id = ?`, id).
		Scan(&request.ID, &request.RequestedBy, &company, &request.AccessStart, &request.AccessEnd, &request.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query request: %w", err)
	}
	request.Company = company.String

	rows, err := s.db.QueryContext(ctx, `SELECT name, primary_document, secondary_document, company_override
		FROM request_providers WHERE request_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query request providers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			p         model.RequestProvider
			primary   sql.NullString
			secondary sql.NullString
			override  sql.NullString
		)
		if err := rows.Scan(&p.Name, &primary, &secondary, &override); err != nil {
			return nil, fmt.Errorf("failed to scan request provider: %w", err)
		}
		p.PrimaryDocument = primary.String
		p.SecondaryDocument = secondary.String
		p.CompanyOverride = override.String
		request.Providers = append(request.Providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read request providers: %w", err)
	}

	return request, nil
}

// GetSavingsByPeriod returns ledger entries recorded inside [start, end].
func (s *SQLiteStorage) GetSavingsByPeriod(ctx context.Context, start, end time.Time) ([]model.SavingsEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, request_id, provider_name, document, kind, amount, explanation, recorded_at
		FROM savings_entries
		WHERE recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at`, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query savings entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.SavingsEntry
	for rows.Next() {
		var (
			entry       model.SavingsEntry
			requestID   sql.NullString
			document    sql.NullString
			explanation sql.NullString
		)
		if err := rows.Scan(&entry.ID, &requestID, &entry.ProviderName, &document,
			&entry.Kind, &entry.Amount, &explanation, &entry.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan savings entry: %w", err)
		}
		entry.RequestID = requestID.String
		entry.Document = document.String
		entry.Explanation = explanation.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read savings entries: %w", err)
	}

	return entries, nil
}
