package engine

import (
	"context"

	"github.com/abarros/triagem/internal/model"
)

// RecordSource provides the full set of historical provider records. No
// server-side filtering by document is assumed; the dual-document OR-match
// requires client-side comparison, and pending/rejected/exception records
// must be included so the classifier can see them.
type RecordSource interface {
	FetchProviderRecords(ctx context.Context) ([]model.HistoricalRecord, error)
}
