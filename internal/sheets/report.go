package sheets

import (
	"fmt"
	"sort"

	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
)

var kindOrder = []model.SavingsKind{
	model.SavingsMaximal,
	model.SavingsOperational,
	model.SavingsAvoided,
	model.SavingsNone,
}

var kindLabels = map[model.SavingsKind]string{
	model.SavingsMaximal:     "Economia máxima",
	model.SavingsOperational: "Economia operacional",
	model.SavingsAvoided:     "Erro evitado",
	model.SavingsNone:        "Sem economia",
}

// prepareReportData lays out the savings summary as sheet rows.
func prepareReportData(summary *service.SavingsSummary) [][]any {
	// Header(2) + totals(3) + kind header(1) + kinds + empty(1) + entry header(1) + entries
	estimatedRows := 8 + len(summary.ByKind) + len(summary.Entries)
	values := make([][]any, 0, estimatedRows)

	values = append(values,
		[]any{
			"Relatório de Economias",
			fmt.Sprintf("%s - %s", summary.DateRange.Start.Format("02/01/2006"), summary.DateRange.End.Format("02/01/2006")),
		},
		[]any{},
		[]any{"Total de economias", len(summary.Entries)},
		[]any{"Valor total", summary.TotalAmount},
		[]any{},
		[]any{"Tipo", "Quantidade", "Valor"},
	)

	for _, kind := range kindOrder {
		ks, ok := summary.ByKind[kind]
		if !ok {
			continue
		}
		values = append(values, []any{kindLabels[kind], ks.Count, ks.Amount})
	}

	values = append(values,
		[]any{},
		[]any{"Data", "Prestador", "Documento", "Tipo", "Valor", "Justificativa"},
	)

	entries := make([]model.SavingsEntry, len(summary.Entries))
	copy(entries, summary.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RecordedAt.Before(entries[j].RecordedAt)
	})

	for _, e := range entries {
		values = append(values, []any{
			e.RecordedAt.Format("02/01/2006"),
			e.ProviderName,
			e.Document,
			kindLabels[e.Kind],
			e.Amount,
			e.Explanation,
		})
	}

	return values
}
