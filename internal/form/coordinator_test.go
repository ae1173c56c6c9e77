package form

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abarros/triagem/internal/common"
	"github.com/abarros/triagem/internal/model"
)

func TestApplyEdit_GeneralModeClearsOverrides(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p2", Value: "Empresa B"})
	require.Equal(t, ModeSpecific, state.Mode)

	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: "Construtora Geral"})

	assert.Equal(t, ModeGeneral, state.Mode)
	assert.Equal(t, "Construtora Geral", state.GeneralCompany)
	assert.Empty(t, state.Overrides, "entering general mode must force every override empty")
}

func TestApplyEdit_OverrideClearsGeneralCompany(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: "Construtora Geral"})
	require.Equal(t, ModeGeneral, state.Mode)

	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})

	assert.Equal(t, ModeSpecific, state.Mode)
	assert.Empty(t, state.GeneralCompany)
	assert.Equal(t, "Empresa A", state.Overrides["p1"])
}

func TestApplyEdit_ClearingLastOverrideReturnsToNone(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})
	require.Equal(t, ModeSpecific, state.Mode)

	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: ""})

	assert.Equal(t, ModeNone, state.Mode)
	assert.Empty(t, state.Overrides)
}

func TestApplyEdit_ClearingOneOfTwoOverridesStaysSpecific(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p2", Value: "Empresa B"})

	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: ""})

	assert.Equal(t, ModeSpecific, state.Mode)
	assert.Equal(t, "Empresa B", state.Overrides["p2"])
}

func TestApplyEdit_ClearingGeneralCompany(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: "Construtora Geral"})

	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: ""})

	assert.Equal(t, ModeNone, state.Mode, "no overrides remain, so mode returns to none")
}

func TestApplyEdit_WhitespaceOnlyValueCountsAsEmpty(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: "   "})
	assert.Equal(t, ModeNone, state.Mode)

	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: " \t"})
	assert.Equal(t, ModeNone, state.Mode)
}

func TestApplyEdit_IsPure(t *testing.T) {
	state := NewState()
	state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})

	_ = ApplyEdit(state, Edit{Kind: EditGeneralCompany, Value: "Construtora Geral"})

	assert.Equal(t, ModeSpecific, state.Mode, "ApplyEdit must not mutate its input")
	assert.Equal(t, "Empresa A", state.Overrides["p1"])
}

func TestSeed_ImportedOverridesWinOverGeneralCompany(t *testing.T) {
	// Spreadsheet import can deliver both a general company and per-provider
	// overrides; the reducer's exclusion rule decides deterministically.
	providers := []model.SubmittedProvider{
		{LocalID: "p1", Name: "Jose da Silva", CompanyOverride: "Empresa A"},
		{LocalID: "p2", Name: "Maria Souza", CompanyOverride: "Empresa B"},
	}
	state := Seed("Construtora Geral", providers)

	assert.Equal(t, ModeSpecific, state.Mode)
	assert.Empty(t, state.GeneralCompany)
	assert.Equal(t, "Empresa A", state.Overrides["p1"])
}

func TestSeed_GeneralOnly(t *testing.T) {
	state := Seed("Construtora Geral", []model.SubmittedProvider{{LocalID: "p1", Name: "Jose"}})
	assert.Equal(t, ModeGeneral, state.Mode)
}

func TestCompanyFor(t *testing.T) {
	general := Seed("Construtora Geral", nil)
	assert.Equal(t, "Construtora Geral", general.CompanyFor("p1"))

	specific := Seed("", []model.SubmittedProvider{{LocalID: "p1", CompanyOverride: "Empresa A"}})
	assert.Equal(t, "Empresa A", specific.CompanyFor("p1"))
	assert.Empty(t, specific.CompanyFor("p2"))

	assert.Empty(t, NewState().CompanyFor("p1"))
}

func TestValidate(t *testing.T) {
	providers := []model.SubmittedProvider{
		{LocalID: "p1", Name: "Jose da Silva"},
		{LocalID: "p2", Name: "Maria Souza"},
	}

	t.Run("none mode blocks submission", func(t *testing.T) {
		err := Validate(NewState(), providers)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrValidationBlocked))
	})

	t.Run("general mode passes", func(t *testing.T) {
		state := Seed("Construtora Geral", nil)
		assert.NoError(t, Validate(state, providers))
	})

	t.Run("specific mode requires every provider covered", func(t *testing.T) {
		state := NewState()
		state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p1", Value: "Empresa A"})

		err := Validate(state, providers)
		require.Error(t, err)
		assert.True(t, errors.Is(err, common.ErrValidationBlocked))
		assert.Contains(t, err.Error(), "Maria Souza")

		state = ApplyEdit(state, Edit{Kind: EditCompanyOverride, LocalID: "p2", Value: "Empresa B"})
		assert.NoError(t, Validate(state, providers))
	})
}
