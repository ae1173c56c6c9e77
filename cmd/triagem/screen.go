package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abarros/triagem/internal/cli"
	"github.com/abarros/triagem/internal/docid"
	"github.com/abarros/triagem/internal/engine"
	"github.com/abarros/triagem/internal/importer"
	"github.com/abarros/triagem/internal/model"
)

func screenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screen <file.xlsx>",
		Short: "Screen providers from a spreadsheet",
		Long: `Screen a batch of providers from a spreadsheet against the
verification history and show what each submission would cost or save.

Nothing is persisted unless --save is given; --save records the savings
ledger entries for providers whose work was avoided.

Examples:
  triagem screen prestadores.xlsx
  triagem screen prestadores.xlsx --save`,
		Args: cobra.ExactArgs(1),
		RunE: runScreen,
	}

	cmd.Flags().Bool("save", false, "Persist savings ledger entries for avoided work")
	_ = viper.BindPFlag("screening.save", cmd.Flags().Lookup("save"))

	return cmd
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	save := viper.GetBool("screening.save")

	providers, err := importer.ParseProviders(args[0])
	if err != nil {
		return fmt.Errorf("failed to read providers: %w", err)
	}
	if len(providers) == 0 {
		return fmt.Errorf("no providers found in %s", args[0])
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

	screener := newScreener(store)
	bar := cli.NewScreeningBar(os.Stderr, len(providers))
	screener.OnProgress(func(completed, _ int) {
		_ = bar.Set(completed)
	})

	started := time.Now()
	results, err := screener.ScreenAll(ctx, providers)
	if err != nil {
		return fmt.Errorf("screening failed: %w", err)
	}
	_ = bar.Finish()

	fmt.Println(cli.RenderClassifications(results))
	fmt.Println(cli.RenderStats(engine.Stats(results, time.Since(started))))

	if !save {
		return nil
	}

	entries := savingsEntries(providers, results)
	if len(entries) == 0 {
		slog.Info("No savings to record")
		return nil
	}
	if err := store.SaveSubmission(ctx, nil, entries); err != nil {
		return fmt.Errorf("failed to record savings: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Recorded %d savings entries", len(entries))))
	return nil
}

// savingsEntries builds ledger rows for the screened providers that carried
// savings. Entries from a standalone screen belong to no request.
func savingsEntries(providers []model.SubmittedProvider, results []model.SavingsClassification) []model.SavingsEntry {
	byID := make(map[string]model.SubmittedProvider, len(providers))
	for _, p := range providers {
		byID[p.LocalID] = p
	}

	var entries []model.SavingsEntry
	for _, r := range results {
		if r.Kind == model.SavingsNone {
			continue
		}
		p := byID[r.LocalID]
		entries = append(entries, model.SavingsEntry{
			ProviderName: p.Name,
			Document:     docid.Key(p.PrimaryDocument, p.SecondaryDocument),
			Kind:         r.Kind,
			Amount:       r.Amount,
			Explanation:  r.Explanation,
		})
	}
	return entries
}
