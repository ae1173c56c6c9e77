package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abarros/triagem/internal/cli"
	"github.com/abarros/triagem/internal/config"
	"github.com/abarros/triagem/internal/model"
	"github.com/abarros/triagem/internal/service"
	"github.com/abarros/triagem/internal/sheets"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize recorded savings",
		Long: `Aggregate the savings ledger over a period and print a breakdown by
savings kind. Use --export-sheets to publish the report to Google Sheets.

Examples:
  triagem report --month 2026-03
  triagem report --year 2026
  triagem report --month 2026-03 --export-sheets`,
		RunE: runReport,
	}

	cmd.Flags().IntP("year", "y", 0, "Year to report on")
	cmd.Flags().StringP("month", "m", "", "Specific month to report on (format: 2026-01)")
	cmd.Flags().Bool("export-sheets", false, "Publish the report to Google Sheets")

	_ = viper.BindPFlag("report.year", cmd.Flags().Lookup("year"))
	_ = viper.BindPFlag("report.month", cmd.Flags().Lookup("month"))
	_ = viper.BindPFlag("report.export_sheets", cmd.Flags().Lookup("export-sheets"))

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	period, err := reportPeriod(viper.GetInt("report.year"), viper.GetString("report.month"))
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	entries, err := store.GetSavingsByPeriod(ctx, period.Start, period.End)
	if err != nil {
		return fmt.Errorf("failed to load savings: %w", err)
	}

	summary := service.Summarize(entries, period)
	fmt.Println(renderSummary(summary))

	if !viper.GetBool("report.export_sheets") {
		return nil
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("sheets not configured: %w", err)
	}
	writer, err := sheets.NewWriter(ctx, *sheetsConfig, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}
	if err := writer.Write(ctx, summary); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Report exported to Google Sheets"))
	return nil
}

// reportPeriod resolves the flags into a concrete date range. With no flags
// the current month is used.
func reportPeriod(year int, month string) (service.DateRange, error) {
	now := time.Now()
	switch {
	case month != "":
		start, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			return service.DateRange{}, fmt.Errorf("invalid month format (use YYYY-MM): %w", err)
		}
		return service.DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case year > 0:
		start := time.Date(year, 1, 1, 0, 0, 0, 0, time.Local)
		return service.DateRange{Start: start, End: start.AddDate(1, 0, 0)}, nil
	default:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		return service.DateRange{Start: start, End: start.AddDate(0, 1, 0)}, nil
	}
}

var kindLabels = map[model.SavingsKind]string{
	model.SavingsMaximal:     "Maximal",
	model.SavingsOperational: "Operational",
	model.SavingsAvoided:     "Avoided errors",
}

func renderSummary(summary *service.SavingsSummary) string {
	lines := []string{
		fmt.Sprintf("Period:   %s - %s",
			summary.DateRange.Start.Format("2006-01-02"),
			summary.DateRange.End.AddDate(0, 0, -1).Format("2006-01-02")),
		fmt.Sprintf("Entries:  %d", len(summary.Entries)),
		"",
	}
	for _, kind := range []model.SavingsKind{model.SavingsMaximal, model.SavingsOperational, model.SavingsAvoided} {
		ks, ok := summary.ByKind[kind]
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-16s %4d  %10.2f", kindLabels[kind], ks.Count, ks.Amount))
	}
	lines = append(lines, "", fmt.Sprintf("%-16s %4d  %10.2f", "Total", len(summary.Entries), summary.TotalAmount))

	return cli.RenderBox(cli.ChartIcon+" Savings report", strings.Join(lines, "\n"))
}
