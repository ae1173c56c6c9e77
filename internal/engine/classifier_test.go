package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarros/triagem/internal/model"
)

func testRecord(name string, cadastro model.CadastroState) *model.HistoricalRecord {
	validUntil := time.Date(2026, 12, 31, 0, 0, 0, 0, time.Local)
	return &model.HistoricalRecord{
		PrimaryDocument: "111.222.333-44",
		Name:            name,
		Company:         "Construtora Alfa",
		Clearance:       model.ClearanceApproved,
		Cadastro:        cadastro,
		ValidUntil:      &validUntil,
	}
}

func TestClassifier_Classify(t *testing.T) {
	policy := model.SavingsPolicy{UnitAmount: 35.00}
	classifier := NewClassifier(policy)

	submitted := model.SubmittedProvider{
		LocalID:         "p1",
		Name:            "Jose da Silva",
		PrimaryDocument: "111.222.333-44",
	}

	tests := []struct {
		record          *model.HistoricalRecord
		name            string
		submitted       model.SubmittedProvider
		wantExplanation string
		clearance       model.ChecagemState
		wantKind        model.SavingsKind
	}{
		{
			name:            "missing name is an incomplete entry",
			submitted:       model.SubmittedProvider{LocalID: "p1", PrimaryDocument: "111.222.333-44"},
			record:          testRecord("Jose da Silva", model.CadastroOK),
			clearance:       model.ChecagemValido,
			wantKind:        model.SavingsNone,
			wantExplanation: "incomplete entry",
		},
		{
			name:            "missing documents is an incomplete entry",
			submitted:       model.SubmittedProvider{LocalID: "p1", Name: "Jose da Silva"},
			clearance:       model.ChecagemSemHistorico,
			wantKind:        model.SavingsNone,
			wantExplanation: "incomplete entry",
		},
		{
			name:            "no record means new provider",
			submitted:       submitted,
			record:          nil,
			clearance:       model.ChecagemSemHistorico,
			wantKind:        model.SavingsNone,
			wantExplanation: "new provider; first verification required",
		},
		{
			name:      "name mismatch dominates a fully cleared record",
			submitted: submitted,
			record:    testRecord("Joao da Silva", model.CadastroOK),
			clearance: model.ChecagemValido,
			wantKind:  model.SavingsAvoided,
			wantExplanation: "typo/duplicate-entry error avoided; " +
				"correct name is Joao da Silva",
		},
		{
			name:            "rejected history blocks resubmission",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroOK),
			clearance:       model.ChecagemReprovado,
			wantKind:        model.SavingsAvoided,
			wantExplanation: "blocked attempt to resubmit a rejected provider",
		},
		{
			name:            "both pipelines pending",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroPending),
			clearance:       model.ChecagemPendente,
			wantKind:        model.SavingsOperational,
			wantExplanation: "duplicate avoided; already in verification and clearance pipeline",
		},
		{
			name:            "urgent cadastro counts as pipeline",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroUrgent),
			clearance:       model.ChecagemPendente,
			wantKind:        model.SavingsOperational,
			wantExplanation: "duplicate avoided; already in verification and clearance pipeline",
		},
		{
			name:      "clearance valid while cadastro pending",
			submitted: submitted,
			record:    testRecord("Jose da Silva", model.CadastroPending),
			clearance: model.ChecagemValido,
			wantKind:  model.SavingsOperational,
			wantExplanation: "duplicate avoided; already in clearance pipeline, " +
				"verification valid until 2026-12-31",
		},
		{
			name:            "fully cleared",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroOK),
			clearance:       model.ChecagemValido,
			wantKind:        model.SavingsMaximal,
			wantExplanation: "unnecessary re-verification avoided; valid until 2026-12-31",
		},
		{
			name:            "cleared by exception",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroOK),
			clearance:       model.ChecagemExcecao,
			wantKind:        model.SavingsMaximal,
			wantExplanation: "unnecessary process avoided; already cleared by exception",
		},
		{
			name:            "expired clearance yields no savings",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroOK),
			clearance:       model.ChecagemVencido,
			wantKind:        model.SavingsNone,
			wantExplanation: "no savings detected",
		},
		{
			name:            "expired cadastro yields no savings even with valid clearance",
			submitted:       submitted,
			record:          testRecord("Jose da Silva", model.CadastroExpired),
			clearance:       model.ChecagemValido,
			wantKind:        model.SavingsNone,
			wantExplanation: "no savings detected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.Classify(tt.submitted, tt.record, tt.clearance)

			assert.Equal(t, tt.submitted.LocalID, got.LocalID)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantExplanation, got.Explanation)
			if tt.wantKind == model.SavingsNone {
				assert.Zero(t, got.Amount, "kind none must carry zero amount")
			} else {
				assert.Equal(t, policy.UnitAmount, got.Amount)
			}
		})
	}
}

func TestClassifier_NameComparisonIsForgiving(t *testing.T) {
	classifier := NewClassifier(model.DefaultSavingsPolicy())

	submitted := model.SubmittedProvider{
		LocalID:         "p1",
		Name:            "  jose DA silva ",
		PrimaryDocument: "111.222.333-44",
	}
	got := classifier.Classify(submitted, testRecord("Jose da Silva", model.CadastroOK), model.ChecagemValido)

	require.Equal(t, model.SavingsMaximal, got.Kind,
		"case and surrounding whitespace must not count as a name mismatch")
}

func TestClassifier_TotalsAreUniform(t *testing.T) {
	policy := model.SavingsPolicy{UnitAmount: 42.00}
	classifier := NewClassifier(policy)

	submitted := model.SubmittedProvider{LocalID: "p1", Name: "Jose da Silva", PrimaryDocument: "123"}
	classifications := []model.SavingsClassification{
		classifier.Classify(submitted, testRecord("Outro Nome", model.CadastroOK), model.ChecagemValido),
		classifier.Classify(submitted, testRecord("Jose da Silva", model.CadastroOK), model.ChecagemReprovado),
		classifier.Classify(submitted, testRecord("Jose da Silva", model.CadastroPending), model.ChecagemPendente),
		classifier.Classify(submitted, testRecord("Jose da Silva", model.CadastroOK), model.ChecagemValido),
		classifier.Classify(submitted, nil, model.ChecagemSemHistorico),
	}

	var total float64
	var count int
	for _, c := range classifications {
		if c.Kind != model.SavingsNone {
			total += c.Amount
			count++
		}
	}
	require.Equal(t, 4, count)
	assert.InDelta(t, float64(count)*policy.UnitAmount, total, 0.001)
}
