package engine

import (
	"fmt"
	"strings"

	"github.com/abarros/triagem/internal/model"
)

// Classifier applies the savings rule cascade to a submitted provider and its
// resolved history.
type Classifier struct {
	policy model.SavingsPolicy
}

// NewClassifier creates a classifier with the given savings policy.
func NewClassifier(policy model.SavingsPolicy) *Classifier {
	return &Classifier{policy: policy}
}

// Classify produces the savings classification for one submitted provider.
// Rules are evaluated in order and the first match wins. Identity errors and
// policy violations are checked before status-based rules so that a name
// mismatch or a rejected history is flagged even when the record would
// otherwise read as a clean match. The operational and maximal rules are
// mutually exclusive by their cadastro conditions, not by ordering.
func (c *Classifier) Classify(submitted model.SubmittedProvider, record *model.HistoricalRecord, clearance model.ChecagemState) model.SavingsClassification {
	result := model.SavingsClassification{
		LocalID: submitted.LocalID,
		Kind:    model.SavingsNone,
	}

	if submitted.Name == "" || !submitted.HasDocument() {
		result.Explanation = "incomplete entry"
		return result
	}
	if record == nil {
		result.Explanation = "new provider; first verification required"
		return result
	}

	// Rule 1: name mismatch against the historical record.
	if !sameName(submitted.Name, record.Name) {
		return c.savings(submitted, model.SavingsAvoided,
			fmt.Sprintf("typo/duplicate-entry error avoided; correct name is %s", record.Name))
	}

	// Rule 2: resubmission of a rejected provider.
	if clearance == model.ChecagemReprovado {
		return c.savings(submitted, model.SavingsAvoided,
			"blocked attempt to resubmit a rejected provider")
	}

	// Rule 3: both checagem and cadastro still in flight.
	if record.Cadastro.InPipeline() && clearance == model.ChecagemPendente {
		return c.savings(submitted, model.SavingsOperational,
			"duplicate avoided; already in verification and clearance pipeline")
	}

	// Rule 4: checagem valid, cadastro still in flight.
	if record.Cadastro.InPipeline() && clearance == model.ChecagemValido {
		return c.savings(submitted, model.SavingsOperational,
			fmt.Sprintf("duplicate avoided; already in clearance pipeline, verification valid until %s", validUntil(record)))
	}

	// Rule 5: fully cleared.
	if record.Cadastro == model.CadastroOK && clearance == model.ChecagemValido {
		return c.savings(submitted, model.SavingsMaximal,
			fmt.Sprintf("unnecessary re-verification avoided; valid until %s", validUntil(record)))
	}

	// Rule 6: cleared by exception.
	if record.Cadastro == model.CadastroOK && clearance == model.ChecagemExcecao {
		return c.savings(submitted, model.SavingsMaximal,
			"unnecessary process avoided; already cleared by exception")
	}

	result.Explanation = "no savings detected"
	return result
}

func (c *Classifier) savings(submitted model.SubmittedProvider, kind model.SavingsKind, explanation string) model.SavingsClassification {
	return model.SavingsClassification{
		LocalID:     submitted.LocalID,
		Kind:        kind,
		Amount:      c.policy.UnitAmount,
		Explanation: explanation,
	}
}

func sameName(submitted, historical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(historical))
}

func validUntil(record *model.HistoricalRecord) string {
	if record.ValidUntil == nil {
		return "unknown date"
	}
	return record.ValidUntil.Format("2006-01-02")
}
