package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/abarros/triagem/internal/model"
)

// FetchProviderRecords returns every historical record regardless of
// clearance status; the screening engine needs pending, rejected and
// exception records too. When the schema lacks the secondary document
// column the select degrades to the primary column only.
func (s *SQLiteStorage) FetchProviderRecords(ctx context.Context) ([]model.HistoricalRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT primary_document, secondary_document, name, company,
			clearance_status, cadastro_state, valid_until, evaluated_on
		FROM provider_records ORDER BY id`
	if !s.caps.SecondaryDocument {
		query = `SELECT primary_document, '', name, company,
				clearance_status, cadastro_state, valid_until, evaluated_on
			FROM provider_records ORDER BY id`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.HistoricalRecord
	for rows.Next() {
		var (
			record      model.HistoricalRecord
			secondary   sql.NullString
			company     sql.NullString
			validUntil  sql.NullTime
			evaluatedOn sql.NullTime
		)
		if err := rows.Scan(&record.PrimaryDocument, &secondary, &record.Name, &company,
			&record.Clearance, &record.Cadastro, &validUntil, &evaluatedOn); err != nil {
			return nil, fmt.Errorf("failed to scan provider record: %w", err)
		}
		record.SecondaryDocument = secondary.String
		record.Company = company.String
		if validUntil.Valid {
			t := validUntil.Time
			record.ValidUntil = &t
		}
		if evaluatedOn.Valid {
			t := evaluatedOn.Time
			record.EvaluatedOn = &t
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read provider records: %w", err)
	}

	return records, nil
}

// SaveProviderRecords inserts historical records. This is the administrative
// seeding path; screening never writes here.
func (s *SQLiteStorage) SaveProviderRecords(ctx context.Context, records []model.HistoricalRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO provider_records
		(primary_document, secondary_document, name, company, clearance_status, cadastro_state, valid_until, evaluated_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, record := range records {
		var validUntil, evaluatedOn any
		if record.ValidUntil != nil {
			validUntil = *record.ValidUntil
		}
		if record.EvaluatedOn != nil {
			evaluatedOn = *record.EvaluatedOn
		}
		if _, err := stmt.ExecContext(ctx,
			record.PrimaryDocument, record.SecondaryDocument, record.Name, record.Company,
			record.Clearance, record.Cadastro, validUntil, evaluatedOn); err != nil {
			return fmt.Errorf("failed to insert provider record for %q: %w", record.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit provider records: %w", err)
	}
	return nil
}
