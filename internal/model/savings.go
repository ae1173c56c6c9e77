package model

import "time"

// SavingsKind indicates what kind of duplicated work a screening avoided.
type SavingsKind string

// Savings kind constants.
const (
	// SavingsNone means the provider must go through the full process.
	SavingsNone SavingsKind = "NONE"
	// SavingsAvoided means an erroneous or policy-violating resubmission was blocked.
	SavingsAvoided SavingsKind = "AVOIDED"
	// SavingsOperational means work already in flight would have been duplicated.
	SavingsOperational SavingsKind = "OPERATIONAL"
	// SavingsMaximal means a fully cleared provider would have been re-verified.
	SavingsMaximal SavingsKind = "MAXIMAL"
)

// SavingsClassification is the screening outcome for one submitted provider.
// Kind == SavingsNone implies Amount == 0.
type SavingsClassification struct {
	LocalID     string
	Kind        SavingsKind
	Amount      float64
	Explanation string
}

// SavingsPolicy carries the monetary value assigned to each avoidance. The
// unit applies uniformly to every rule; whether different avoidance kinds
// should ever be priced differently is a policy question, so the value is
// configuration rather than a literal.
type SavingsPolicy struct {
	UnitAmount float64
}

// DefaultUnitAmount is the per-avoidance value used when none is configured.
const DefaultUnitAmount = 35.00

// DefaultSavingsPolicy returns the policy applied when configuration is absent.
func DefaultSavingsPolicy() SavingsPolicy {
	return SavingsPolicy{UnitAmount: DefaultUnitAmount}
}

// SavingsEntry is a persisted ledger row recording one avoided piece of work.
type SavingsEntry struct {
	RecordedAt   time.Time
	RequestID    string
	ProviderName string
	Document     string
	Explanation  string
	Kind         SavingsKind
	Amount       float64
	ID           int64
}
