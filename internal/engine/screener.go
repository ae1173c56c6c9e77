// Package engine implements the provider screening engine: historical record
// resolution, clearance interpretation, and savings classification.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abarros/triagem/internal/docid"
	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
)

// Screener runs the resolver and classifier across a submitted provider list.
type Screener struct {
	resolver   *Resolver
	classifier *Classifier
	now        func() time.Time
	onProgress func(completed, total int)
	maxLookups int
}

// Config holds configuration options for the screener.
type Config struct {
	// MaxConcurrentLookups bounds how many record-source lookups run at
	// once. Lookups are independent and idempotent, so the bound only
	// protects the source from burst load.
	MaxConcurrentLookups int
}

// DefaultConfig returns the default screener configuration.
func DefaultConfig() Config {
	return Config{MaxConcurrentLookups: 4}
}

// NewScreener creates a screener with the default configuration.
func NewScreener(source RecordSource, policy model.SavingsPolicy) *Screener {
	return NewScreenerWithConfig(source, policy, DefaultConfig())
}

// NewScreenerWithConfig creates a screener with a custom configuration.
func NewScreenerWithConfig(source RecordSource, policy model.SavingsPolicy, config Config) *Screener {
	maxLookups := config.MaxConcurrentLookups
	if maxLookups < 1 {
		maxLookups = 1
	}
	return &Screener{
		resolver:   NewResolver(source),
		classifier: NewClassifier(policy),
		now:        time.Now,
		maxLookups: maxLookups,
	}
}

// OnProgress registers a callback invoked after each completed resolution.
func (s *Screener) OnProgress(fn func(completed, total int)) {
	s.onProgress = fn
}

// ScreenAll classifies every submitted provider, issuing one resolution per
// unique normalized identifier and broadcasting the resolved record to every
// entry that shares it. Results come back in input order. The only error
// returned is context cancellation; lookup failures degrade per provider.
func (s *Screener) ScreenAll(ctx context.Context, providers []model.SubmittedProvider) ([]model.SavingsClassification, error) {
	results := make([]model.SavingsClassification, len(providers))

	// Group lookup-eligible entries by identity key. Incomplete entries are
	// classified locally and never looked up; entries whose documents carry
	// no digits get an individual fail-closed resolution.
	groups := make(map[string][]int)
	var keys []string
	for i, p := range providers {
		if !p.Complete() {
			results[i] = s.classifier.Classify(p, nil, model.ChecagemSemHistorico)
			continue
		}
		key := docid.Key(p.PrimaryDocument, p.SecondaryDocument)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], i)
	}

	slog.Debug("screening batch",
		"providers", len(providers),
		"unique_identifiers", len(keys))

	var mu sync.Mutex
	records := make(map[string]*model.HistoricalRecord, len(keys))
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxLookups)
	for _, key := range keys {
		indexes := groups[key]
		// One resolution per unique identifier; the first grouped entry
		// supplies the raw documents.
		first := providers[indexes[0]]
		g.Go(func() error {
			record := s.resolver.Resolve(gctx, first.PrimaryDocument, first.SecondaryDocument)
			mu.Lock()
			records[key] = record
			completed++
			done := completed
			mu.Unlock()
			if s.onProgress != nil {
				s.onProgress(done, len(keys))
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		// Abandoned batch: in-flight lookups already finished, their
		// results are discarded with the batch.
		return nil, err
	}

	now := s.now()
	for key, indexes := range groups {
		record := records[key]
		clearance := model.ChecagemSemHistorico
		if record != nil {
			clearance = InterpretClearance(*record, now)
		}
		for _, i := range indexes {
			results[i] = s.classifier.Classify(providers[i], record, clearance)
		}
	}
	return results, nil
}

// Stats aggregates a finished screening run for display and persistence.
func Stats(classifications []model.SavingsClassification, duration time.Duration) service.ScreeningStats {
	stats := service.ScreeningStats{
		ByKind:         make(map[model.SavingsKind]int),
		TotalProviders: len(classifications),
		Duration:       duration,
	}
	for _, c := range classifications {
		stats.ByKind[c.Kind]++
		if c.Kind != model.SavingsNone {
			stats.WithSavings++
			stats.TotalAvoided += c.Amount
		}
	}
	return stats
}
