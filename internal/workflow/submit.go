// Package workflow turns screening results into persisted submissions:
// providers with no detected savings become an access request, everything
// else becomes savings ledger entries.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abarros/triagem/internal/common"
	"github.com/abarros/triagem/internal/docid"
	"github.com/abarros/triagem/internal/engine"
	"github.com/abarros/triagem/internal/form"
	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
)

// Submission is one batch of providers plus the requested access window.
type Submission struct {
	AccessStart time.Time
	AccessEnd   time.Time
	Form        form.State
	RequestedBy string
	Providers   []model.SubmittedProvider
}

// Result reports what a processed submission produced. RequestID is empty
// when every provider carried savings and request creation was suppressed.
type Result struct {
	RequestID       string
	Classifications []model.SavingsClassification
	Persisted       []model.RequestProvider
	Savings         []model.SavingsEntry
	Stats           service.ScreeningStats
}

// PureSavings reports whether the whole batch was avoided work.
func (r *Result) PureSavings() bool {
	return r.RequestID == "" && len(r.Savings) > 0
}

// Processor runs submissions through validation, screening and persistence.
type Processor struct {
	storage  service.Storage
	screener *engine.Screener
	dryRun   bool
}

// NewProcessor creates a submission processor.
func NewProcessor(storage service.Storage, screener *engine.Screener) *Processor {
	return &Processor{storage: storage, screener: screener}
}

// SetDryRun disables persistence; Process still screens and partitions.
func (p *Processor) SetDryRun(dryRun bool) {
	p.dryRun = dryRun
}

// Process validates, screens and persists one submission. Validation
// failures block the entire batch; per-provider lookup failures never do.
func (p *Processor) Process(ctx context.Context, submission Submission) (*Result, error) {
	if len(submission.Providers) == 0 {
		return nil, common.ErrNoProviders
	}
	for _, provider := range submission.Providers {
		if !provider.Complete() {
			return nil, fmt.Errorf("%w: provider %q is missing a name or document",
				common.ErrValidationBlocked, provider.Name)
		}
	}
	if err := form.Validate(submission.Form, submission.Providers); err != nil {
		return nil, err
	}

	start := time.Now()
	classifications, err := p.screener.ScreenAll(ctx, submission.Providers)
	if err != nil {
		return nil, err
	}

	result := &Result{Classifications: classifications}
	byLocalID := make(map[string]model.SavingsClassification, len(classifications))
	for _, c := range classifications {
		byLocalID[c.LocalID] = c
	}

	for _, provider := range submission.Providers {
		classification := byLocalID[provider.LocalID]
		if classification.Kind == model.SavingsNone {
			result.Persisted = append(result.Persisted, model.RequestProvider{
				Name:              provider.Name,
				PrimaryDocument:   provider.PrimaryDocument,
				SecondaryDocument: provider.SecondaryDocument,
				CompanyOverride:   overrideFor(submission.Form, provider),
			})
			continue
		}
		result.Savings = append(result.Savings, model.SavingsEntry{
			ProviderName: provider.Name,
			Document:     docid.Key(provider.PrimaryDocument, provider.SecondaryDocument),
			Kind:         classification.Kind,
			Amount:       classification.Amount,
			Explanation:  classification.Explanation,
		})
	}

	var request *model.AccessRequest
	if len(result.Persisted) > 0 {
		request = &model.AccessRequest{
			ID:          uuid.NewString(),
			RequestedBy: submission.RequestedBy,
			Company:     submission.Form.GeneralCompany,
			AccessStart: submission.AccessStart,
			AccessEnd:   submission.AccessEnd,
			Providers:   result.Persisted,
		}
		result.RequestID = request.ID
	} else {
		slog.Info("every provider carried savings, suppressing request creation",
			"providers", len(submission.Providers))
	}

	if !p.dryRun {
		if err := p.storage.SaveSubmission(ctx, request, result.Savings); err != nil {
			return nil, fmt.Errorf("failed to persist submission: %w", err)
		}
	}

	result.Stats = engine.Stats(classifications, time.Since(start))
	return result, nil
}

func overrideFor(state form.State, provider model.SubmittedProvider) string {
	if state.Mode == form.ModeSpecific {
		return state.CompanyFor(provider.LocalID)
	}
	return ""
}
