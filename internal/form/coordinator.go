// Package form implements the company-assignment coordinator for an
// in-progress submission. The form layer reports field edits; the reducer
// keeps the "one company for all providers" and "per-provider company" modes
// mutually exclusive and always derivable from current field contents.
package form

import (
	"fmt"
	"strings"

	"github.com/abarros/triagem/internal/common"
	"github.com/abarros/triagem/internal/model"
)

// Mode is the company-assignment mode of one in-progress submission.
type Mode string

// Company-assignment modes.
const (
	ModeNone     Mode = "NONE"
	ModeGeneral  Mode = "GENERAL"
	ModeSpecific Mode = "SPECIFIC"
)

// EditKind identifies which field an edit touched.
type EditKind string

// Edit kinds.
const (
	EditGeneralCompany  EditKind = "GENERAL_COMPANY"
	EditCompanyOverride EditKind = "COMPANY_OVERRIDE"
)

// Edit is a single field edit reported by the form layer.
type Edit struct {
	Kind    EditKind
	LocalID string // set for EditCompanyOverride
	Value   string
}

// State is the coordinator state. Mode is never tracked incrementally: it is
// recomputed from field contents on every edit, so re-render timing can never
// leave it ambiguous.
type State struct {
	Overrides      map[string]string
	GeneralCompany string
	Mode           Mode
}

// NewState returns the initial coordinator state.
func NewState() State {
	return State{Mode: ModeNone, Overrides: map[string]string{}}
}

// ApplyEdit applies one field edit and returns the next state. Mutual
// exclusion is enforced by the edit itself: filling the general field clears
// every override, filling an override clears the general field.
func ApplyEdit(state State, edit Edit) State {
	next := State{
		GeneralCompany: state.GeneralCompany,
		Overrides:      make(map[string]string, len(state.Overrides)),
	}
	for id, company := range state.Overrides {
		next.Overrides[id] = company
	}

	value := strings.TrimSpace(edit.Value)
	switch edit.Kind {
	case EditGeneralCompany:
		next.GeneralCompany = value
		if value != "" {
			next.Overrides = map[string]string{}
		}
	case EditCompanyOverride:
		if value == "" {
			delete(next.Overrides, edit.LocalID)
		} else {
			next.Overrides[edit.LocalID] = value
			next.GeneralCompany = ""
		}
	}

	next.Mode = deriveMode(next)
	return next
}

func deriveMode(state State) Mode {
	if state.GeneralCompany != "" {
		return ModeGeneral
	}
	if len(state.Overrides) > 0 {
		return ModeSpecific
	}
	return ModeNone
}

// Seed rebuilds coordinator state from already-populated providers, as after
// a spreadsheet import. Per-provider overrides win over a general company
// when both arrive filled, matching ApplyEdit's exclusion rule.
func Seed(generalCompany string, providers []model.SubmittedProvider) State {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: generalCompany})
	for _, p := range providers {
		if strings.TrimSpace(p.CompanyOverride) == "" {
			continue
		}
		state = ApplyEdit(state, Edit{
			Kind:    EditCompanyOverride,
			LocalID: p.LocalID,
			Value:   p.CompanyOverride,
		})
	}
	return state
}

// CompanyFor returns the company that applies to one provider under the
// current mode.
func (s State) CompanyFor(localID string) string {
	switch s.Mode {
	case ModeGeneral:
		return s.GeneralCompany
	case ModeSpecific:
		return s.Overrides[localID]
	default:
		return ""
	}
}

// Validate checks the submission-level company invariants before a batch is
// accepted: general mode needs the shared company, specific mode needs an
// override on every provider. Failures block the whole submission.
func Validate(state State, providers []model.SubmittedProvider) error {
	switch state.Mode {
	case ModeGeneral:
		if strings.TrimSpace(state.GeneralCompany) == "" {
			return fmt.Errorf("%w: general company is empty", common.ErrValidationBlocked)
		}
	case ModeSpecific:
		for _, p := range providers {
			if strings.TrimSpace(state.Overrides[p.LocalID]) == "" {
				return fmt.Errorf("%w: provider %q has no company assigned", common.ErrValidationBlocked, p.Name)
			}
		}
	default:
		return fmt.Errorf("%w: no company assigned to the submission", common.ErrValidationBlocked)
	}
	return nil
}
