package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarros/triagem/internal/model"
)

func TestScreener_DeduplicatesSharedIdentifiers(t *testing.T) {
	validUntil := time.Now().AddDate(0, 6, 0)
	source := &stubSource{
		records: []model.HistoricalRecord{
			{
				PrimaryDocument: "123",
				Name:            "Jose da Silva",
				Clearance:       model.ClearanceApproved,
				Cadastro:        model.CadastroOK,
				ValidUntil:      &validUntil,
			},
		},
	}
	screener := NewScreener(source, model.DefaultSavingsPolicy())

	// Same document spelled two ways plus an unrelated provider.
	providers := []model.SubmittedProvider{
		{LocalID: "a", Name: "Jose da Silva", PrimaryDocument: "1-2-3"},
		{LocalID: "b", Name: "Jose da Silva", PrimaryDocument: "123"},
		{LocalID: "c", Name: "Maria Souza", PrimaryDocument: "999"},
	}

	results, err := screener.ScreenAll(context.Background(), providers)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, int64(2), source.fetches.Load(),
		"entries sharing an identifier must share one resolution")

	assert.Equal(t, "a", results[0].LocalID)
	assert.Equal(t, "b", results[1].LocalID)
	assert.Equal(t, results[0].Kind, results[1].Kind)
	assert.Equal(t, results[0].Explanation, results[1].Explanation)
	assert.Equal(t, model.SavingsMaximal, results[0].Kind)

	assert.Equal(t, model.SavingsNone, results[2].Kind)
	assert.Equal(t, "new provider; first verification required", results[2].Explanation)
}

func TestScreener_IncompleteEntriesSkipLookup(t *testing.T) {
	source := &stubSource{}
	screener := NewScreener(source, model.DefaultSavingsPolicy())

	providers := []model.SubmittedProvider{
		{LocalID: "a"},
		{LocalID: "b", Name: "Sem Documento"},
		{LocalID: "c", PrimaryDocument: "123"},
	}

	results, err := screener.ScreenAll(context.Background(), providers)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Zero(t, source.fetches.Load(), "incomplete entries must never trigger a lookup")
	for _, r := range results {
		assert.Equal(t, model.SavingsNone, r.Kind)
		assert.Equal(t, "incomplete entry", r.Explanation)
		assert.Zero(t, r.Amount)
	}
}

func TestScreener_LookupFailureDegradesToNewProvider(t *testing.T) {
	source := &stubSource{err: errors.New("record source down")}
	screener := NewScreener(source, model.DefaultSavingsPolicy())

	providers := []model.SubmittedProvider{
		{LocalID: "a", Name: "Jose da Silva", PrimaryDocument: "111.222.333-44"},
	}

	results, err := screener.ScreenAll(context.Background(), providers)
	require.NoError(t, err, "lookup failures must not surface as batch failures")
	require.Len(t, results, 1)
	assert.Equal(t, model.SavingsNone, results[0].Kind)
	assert.Equal(t, "new provider; first verification required", results[0].Explanation)
}

func TestScreener_CanceledBatchDiscardsResults(t *testing.T) {
	source := &stubSource{}
	screener := NewScreener(source, model.DefaultSavingsPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	providers := []model.SubmittedProvider{
		{LocalID: "a", Name: "Jose da Silva", PrimaryDocument: "123"},
	}
	results, err := screener.ScreenAll(ctx, providers)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestScreener_ReportsProgressPerResolution(t *testing.T) {
	source := &stubSource{}
	screener := NewScreenerWithConfig(source, model.DefaultSavingsPolicy(), Config{MaxConcurrentLookups: 1})

	var calls int
	var lastTotal int
	screener.OnProgress(func(_, total int) {
		calls++
		lastTotal = total
	})

	providers := []model.SubmittedProvider{
		{LocalID: "a", Name: "Jose da Silva", PrimaryDocument: "123"},
		{LocalID: "b", Name: "Maria Souza", PrimaryDocument: "456"},
		{LocalID: "c", Name: "Jose da Silva", PrimaryDocument: "1.2.3"},
	}
	_, err := screener.ScreenAll(context.Background(), providers)
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "one progress tick per unique identifier")
	assert.Equal(t, 2, lastTotal)
}

func TestScreener_StatsTotals(t *testing.T) {
	classifications := []model.SavingsClassification{
		{LocalID: "a", Kind: model.SavingsMaximal, Amount: 35},
		{LocalID: "b", Kind: model.SavingsAvoided, Amount: 35},
		{LocalID: "c", Kind: model.SavingsNone},
	}

	stats := Stats(classifications, time.Second)
	assert.Equal(t, 3, stats.TotalProviders)
	assert.Equal(t, 2, stats.WithSavings)
	assert.InDelta(t, 70.0, stats.TotalAvoided, 0.001)
	assert.Equal(t, 1, stats.ByKind[model.SavingsNone])
	assert.Equal(t, 1, stats.ByKind[model.SavingsMaximal])
}
