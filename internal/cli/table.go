package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
)

var kindStyles = map[model.SavingsKind]func(string) string{
	model.SavingsNone:        func(s string) string { return SubtleStyle.Render(s) },
	model.SavingsAvoided:     func(s string) string { return ErrorStyle.Render(s) },
	model.SavingsOperational: func(s string) string { return WarningStyle.Render(s) },
	model.SavingsMaximal:     func(s string) string { return SuccessStyle.Render(s) },
}

// RenderClassifications renders screening outcomes as a table.
func RenderClassifications(results []model.SavingsClassification) string {
	var b strings.Builder

	header := fmt.Sprintf("%-12s %-14s %10s  %s", "ID", "Resultado", "Valor", "Justificativa")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, r := range results {
		style, ok := kindStyles[r.Kind]
		if !ok {
			style = func(s string) string { return s }
		}
		row := fmt.Sprintf("%-12s %-14s %10.2f  %s", r.LocalID, r.Kind, r.Amount, r.Explanation)
		b.WriteString(style(row))
		b.WriteString("\n")
	}

	return b.String()
}

// RenderStats renders the outcome of a screening run.
func RenderStats(stats service.ScreeningStats) string {
	lines := []string{
		fmt.Sprintf("Providers screened:  %d", stats.TotalProviders),
		fmt.Sprintf("With savings:        %d", stats.WithSavings),
		fmt.Sprintf("Total avoided:       %.2f", stats.TotalAvoided),
		fmt.Sprintf("Duration:            %s", stats.Duration.Round(time.Millisecond)),
	}
	return RenderBox(ChartIcon+" Screening summary", strings.Join(lines, "\n"))
}
