// Package importer reads provider lists and historical record seeds from
// spreadsheets. Columns are located by header keywords, not fixed positions,
// because every site exports these sheets with its own layout.
package importer

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abarros/triagem/internal/model"
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "01-02-06", "2006-01-02 15:04:05"}

// ParseProviders reads submitted provider entries from the first sheet.
// LocalIDs are assigned from row numbers so screening results can be traced
// back to the spreadsheet.
func ParseProviders(path string) ([]model.SubmittedProvider, error) {
	rows, err := sheetRows(path)
	if err != nil {
		return nil, err
	}

	headers := rows[0]
	nameCol := findColumn(headers, "name", "nome", "prestador", "provider")
	primaryCol := findColumn(headers, "cpf", "primary", "documento")
	secondaryCol := findColumn(headers, "rg", "secondary")
	companyCol := findColumn(headers, "empresa", "company")
	if nameCol == -1 && primaryCol == -1 {
		return nil, fmt.Errorf("no provider name or document column found in %s", path)
	}

	var providers []model.SubmittedProvider
	for i := 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		providers = append(providers, model.SubmittedProvider{
			LocalID:           fmt.Sprintf("row-%d", i+1),
			Name:              cell(rows[i], nameCol),
			PrimaryDocument:   cell(rows[i], primaryCol),
			SecondaryDocument: cell(rows[i], secondaryCol),
			CompanyOverride:   cell(rows[i], companyCol),
		})
	}

	slog.Info("parsed provider spreadsheet", "path", path, "providers", len(providers))
	return providers, nil
}

// ParseRecords reads historical record seeds from the first sheet.
func ParseRecords(path string) ([]model.HistoricalRecord, error) {
	rows, err := sheetRows(path)
	if err != nil {
		return nil, err
	}

	headers := rows[0]
	nameCol := findColumn(headers, "name", "nome", "prestador")
	primaryCol := findColumn(headers, "cpf", "primary", "documento")
	secondaryCol := findColumn(headers, "rg", "secondary")
	companyCol := findColumn(headers, "empresa", "company")
	clearanceCol := findColumn(headers, "checagem", "clearance")
	cadastroCol := findColumn(headers, "cadastro", "registration")
	validCol := findColumn(headers, "validade", "valid")
	evaluatedCol := findColumn(headers, "avalia", "evaluated")
	if nameCol == -1 || primaryCol == -1 {
		return nil, fmt.Errorf("record sheet %s must carry name and document columns", path)
	}

	var records []model.HistoricalRecord
	for i := 1; i < len(rows); i++ {
		if isEmptyRow(rows[i]) {
			continue
		}
		record := model.HistoricalRecord{
			Name:              cell(rows[i], nameCol),
			PrimaryDocument:   cell(rows[i], primaryCol),
			SecondaryDocument: cell(rows[i], secondaryCol),
			Company:           cell(rows[i], companyCol),
			Clearance:         parseClearance(cell(rows[i], clearanceCol)),
			Cadastro:          parseCadastro(cell(rows[i], cadastroCol)),
			ValidUntil:        parseDate(cell(rows[i], validCol)),
			EvaluatedOn:       parseDate(cell(rows[i], evaluatedCol)),
		}
		if record.Name == "" && record.PrimaryDocument == "" {
			continue
		}
		records = append(records, record)
	}

	slog.Info("parsed record spreadsheet", "path", path, "records", len(records))
	return records, nil
}

func sheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in %s", path)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}
	return rows, nil
}

// findColumn returns the first header containing any of the keywords,
// scanning keywords in priority order.
func findColumn(headers []string, keywords ...string) int {
	for _, keyword := range keywords {
		for i, header := range headers {
			if strings.Contains(strings.ToLower(strings.TrimSpace(header)), keyword) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseClearance(raw string) model.ClearanceStatus {
	switch strings.ToLower(raw) {
	case "aprovado", "aprovada", "approved":
		return model.ClearanceApproved
	case "reprovado", "reprovada", "rejected":
		return model.ClearanceRejected
	case "excecao", "exceção", "exception":
		return model.ClearanceException
	case "pendente", "pending":
		return model.ClearancePending
	default:
		return model.ClearanceStatus(strings.ToUpper(raw))
	}
}

func parseCadastro(raw string) model.CadastroState {
	switch strings.ToLower(raw) {
	case "ok", "liberado":
		return model.CadastroOK
	case "pendente", "pending":
		return model.CadastroPending
	case "urgente", "urgent":
		return model.CadastroUrgent
	case "vencida", "vencido", "expired":
		return model.CadastroExpired
	default:
		return model.CadastroState(strings.ToUpper(raw))
	}
}

func parseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t
		}
	}
	slog.Debug("unparseable date in spreadsheet", "value", raw)
	return nil
}
