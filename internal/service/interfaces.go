// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/abarros/triagem/internal/model"
)

// SchemaCapabilities describes what the underlying record schema can provide.
// It is resolved once when the store opens, not negotiated per call.
type SchemaCapabilities struct {
	// SecondaryDocument is false when the historical record table predates
	// the secondary document column; matching then degrades to the primary
	// column only.
	SecondaryDocument bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Historical provider records. The screening engine only reads these;
	// writes exist for administrative seeding.
	FetchProviderRecords(ctx context.Context) ([]model.HistoricalRecord, error)
	SaveProviderRecords(ctx context.Context, records []model.HistoricalRecord) error

	// Requests and the savings ledger. SaveSubmission persists an accepted
	// request together with its savings entries atomically; a nil request
	// records pure savings.
	SaveSubmission(ctx context.Context, request *model.AccessRequest, savings []model.SavingsEntry) error
	GetRequestByID(ctx context.Context, id string) (*model.AccessRequest, error)
	GetSavingsByPeriod(ctx context.Context, start, end time.Time) ([]model.SavingsEntry, error)

	// Database management.
	Migrate(ctx context.Context) error
	Capabilities() SchemaCapabilities
	Close() error
}

// ReportWriter exports a savings summary to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, summary *SavingsSummary) error
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// KindSummary aggregates the ledger for one savings kind.
type KindSummary struct {
	Count  int
	Amount float64
}

// SavingsSummary contains aggregate savings information for reporting.
type SavingsSummary struct {
	ByKind      map[model.SavingsKind]KindSummary
	Entries     []model.SavingsEntry
	DateRange   DateRange
	TotalAmount float64
}

// ScreeningStats shows the results of a batch screening run.
type ScreeningStats struct {
	ByKind         map[model.SavingsKind]int
	TotalProviders int
	WithSavings    int
	TotalAvoided   float64
	Duration       time.Duration
}

// Summarize builds a SavingsSummary from ledger entries.
func Summarize(entries []model.SavingsEntry, period DateRange) *SavingsSummary {
	summary := &SavingsSummary{
		DateRange: period,
		Entries:   entries,
		ByKind:    make(map[model.SavingsKind]KindSummary),
	}
	for _, e := range entries {
		ks := summary.ByKind[e.Kind]
		ks.Count++
		ks.Amount += e.Amount
		summary.ByKind[e.Kind] = ks
		summary.TotalAmount += e.Amount
	}
	return summary
}
