package engine

import (
	"context"
	"log/slog"

	"github.com/abarros/triagem/internal/docid"
	"github.com/abarros/triagem/internal/model"
)

// Resolver looks up a provider's historical record by either of its two
// alternate documents.
type Resolver struct {
	source RecordSource
}

// NewResolver creates a resolver backed by the given record source.
func NewResolver(source RecordSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the historical record matching either supplied document, or
// nil when none exists. It fails closed when both inputs normalize to empty,
// and a source failure degrades to nil rather than propagating: a transient
// lookup failure must never block a submission, only cost it a lookup.
func (r *Resolver) Resolve(ctx context.Context, primaryDoc, secondaryDoc string) *model.HistoricalRecord {
	primary := docid.Normalize(primaryDoc)
	secondary := docid.Normalize(secondaryDoc)
	if primary == "" && secondary == "" {
		return nil
	}

	records, err := r.source.FetchProviderRecords(ctx)
	if err != nil {
		slog.Warn("record source unavailable, treating provider as new",
			"error", err)
		return nil
	}

	// First record in fetch order wins when duplicate data matches twice.
	for i := range records {
		if matchesDocuments(records[i], primary, secondary) {
			return &records[i]
		}
	}
	return nil
}

// matchesDocuments matches on either side, either column: providers are filed
// under whichever of their two documents the clerk had at hand.
func matchesDocuments(record model.HistoricalRecord, primary, secondary string) bool {
	recPrimary := docid.Normalize(record.PrimaryDocument)
	if recPrimary != "" && (recPrimary == primary || recPrimary == secondary) {
		return true
	}
	recSecondary := docid.Normalize(record.SecondaryDocument)
	return recSecondary != "" && (recSecondary == primary || recSecondary == secondary)
}
