// Package tui implements the interactive submission form.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abarros/triagem/internal/form"
	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/workflow"
)

// Field indexes into the input slice.
const (
	fieldRequestedBy = iota
	fieldCompany
	fieldAccessStart
	fieldAccessEnd
	fieldProviderName
	fieldPrimaryDoc
	fieldSecondaryDoc
	fieldOverride
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Solicitante",
	"Empresa (geral)",
	"Início do acesso (DD/MM/AAAA)",
	"Fim do acesso (DD/MM/AAAA)",
	"Nome do prestador",
	"Documento principal",
	"Documento secundário",
	"Empresa específica",
}

const dateLayout = "02/01/2006"

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	focusedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	providerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

// Model drives the provider submission form.
type Model struct {
	errMsg    string
	inputs    []textinput.Model
	providers []model.SubmittedProvider
	formState form.State
	focus     int
	nextID    int
	submitted bool
	quitting  bool
}

// NewModel returns a submission form with empty fields.
func NewModel() Model {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Placeholder = fieldLabels[i]
		in.CharLimit = 80
		inputs[i] = in
	}
	inputs[fieldRequestedBy].Focus()

	return Model{
		inputs:    inputs,
		formState: form.NewState(),
		nextID:    1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInputs(msg)
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab", "down":
		m = m.syncFormState()
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil

	case "shift+tab", "up":
		m = m.syncFormState()
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil

	case "enter":
		m = m.syncFormState()
		if m.focus < fieldProviderName {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		return m.addProvider(), nil

	case "ctrl+s":
		m = m.syncFormState()
		if m.providerPending() {
			m = m.addProvider()
			if m.errMsg != "" {
				return m, nil
			}
		}
		m.submitted = true
		return m, tea.Quit
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

// syncFormState pushes the company fields through the form reducer so the
// general and specific assignments stay mutually exclusive.
func (m Model) syncFormState() Model {
	m.formState = form.ApplyEdit(m.formState, form.Edit{
		Kind:  form.EditGeneralCompany,
		Value: m.inputs[fieldCompany].Value(),
	})
	m.inputs[fieldCompany].SetValue(m.formState.GeneralCompany)
	return m
}

func (m Model) providerPending() bool {
	return strings.TrimSpace(m.inputs[fieldProviderName].Value()) != "" ||
		strings.TrimSpace(m.inputs[fieldPrimaryDoc].Value()) != "" ||
		strings.TrimSpace(m.inputs[fieldSecondaryDoc].Value()) != ""
}

func (m Model) addProvider() Model {
	provider := model.SubmittedProvider{
		LocalID:           fmt.Sprintf("provider-%d", m.nextID),
		Name:              strings.TrimSpace(m.inputs[fieldProviderName].Value()),
		PrimaryDocument:   strings.TrimSpace(m.inputs[fieldPrimaryDoc].Value()),
		SecondaryDocument: strings.TrimSpace(m.inputs[fieldSecondaryDoc].Value()),
	}

	if !provider.Complete() {
		m.errMsg = "prestador precisa de nome e ao menos um documento"
		return m
	}

	if override := strings.TrimSpace(m.inputs[fieldOverride].Value()); override != "" {
		m.formState = form.ApplyEdit(m.formState, form.Edit{
			Kind:    form.EditCompanyOverride,
			LocalID: provider.LocalID,
			Value:   override,
		})
		m.inputs[fieldCompany].SetValue(m.formState.GeneralCompany)
	}

	m.providers = append(m.providers, provider)
	m.nextID++
	m.errMsg = ""

	for i := fieldProviderName; i < fieldCount; i++ {
		m.inputs[i].SetValue("")
	}
	m.setFocus(fieldProviderName)
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.submitted {
		return ""
	}

	var b strings.Builder
	b.WriteString(focusedStyle.Render("Nova solicitação de acesso"))
	b.WriteString("\n\n")

	for i, in := range m.inputs {
		label := fieldLabels[i]
		if i == m.focus {
			b.WriteString(focusedStyle.Render("> " + label))
		} else {
			b.WriteString(labelStyle.Render("  " + label))
		}
		b.WriteString("\n  ")
		b.WriteString(in.View())
		b.WriteString("\n")
		if i == fieldAccessEnd {
			b.WriteString("\n")
		}
	}

	if len(m.providers) > 0 {
		b.WriteString("\n")
		b.WriteString(providerStyle.Render(fmt.Sprintf("%d prestador(es) na solicitação", len(m.providers))))
		b.WriteString("\n")
		for _, p := range m.providers {
			line := fmt.Sprintf("  %s (%s)", p.Name, p.PrimaryDocument)
			if company := m.formState.CompanyFor(p.LocalID); company != "" {
				line += " @ " + company
			}
			b.WriteString(providerStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: adicionar prestador • tab: próximo campo • ctrl+s: enviar • esc: cancelar"))
	b.WriteString("\n")
	return b.String()
}

// Submission converts the form contents into a workflow submission.
// The second return is false when the form was cancelled or empty.
func (m Model) Submission() (workflow.Submission, bool) {
	if !m.submitted || len(m.providers) == 0 {
		return workflow.Submission{}, false
	}

	submission := workflow.Submission{
		RequestedBy: strings.TrimSpace(m.inputs[fieldRequestedBy].Value()),
		Form:        m.formState,
		Providers:   m.providers,
	}
	if t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(m.inputs[fieldAccessStart].Value()), time.Local); err == nil {
		submission.AccessStart = t
	}
	if t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(m.inputs[fieldAccessEnd].Value()), time.Local); err == nil {
		submission.AccessEnd = t
	}
	return submission, true
}

// Run blocks on the interactive form and returns the resulting submission.
func Run() (workflow.Submission, bool, error) {
	program := tea.NewProgram(NewModel())
	final, err := program.Run()
	if err != nil {
		return workflow.Submission{}, false, fmt.Errorf("form failed: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return workflow.Submission{}, false, fmt.Errorf("unexpected model type %T", final)
	}
	submission, submitted := m.Submission()
	return submission, submitted, nil
}
