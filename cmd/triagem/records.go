package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abarros/triagem/internal/cli"
	"github.com/abarros/triagem/internal/importer"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage the verification history",
	}
	cmd.AddCommand(recordsImportCmd())
	return cmd
}

func recordsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import historical provider records from a spreadsheet",
		Long: `Load verification history rows from a spreadsheet into the local
database. Screening matches submitted providers against these records.`,
		Args: cobra.ExactArgs(1),
		RunE: runRecordsImport,
	}
}

func runRecordsImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	records, err := importer.ParseRecords(args[0])
	if err != nil {
		return fmt.Errorf("failed to read records: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records found in %s", args[0])
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

	if err := store.SaveProviderRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d historical records", len(records))))
	return nil
}
