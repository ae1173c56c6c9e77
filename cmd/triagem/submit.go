package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abarros/triagem/internal/cli"
	"github.com/abarros/triagem/internal/common"
	"github.com/abarros/triagem/internal/form"
	"github.com/abarros/triagem/internal/importer"
	"github.com/abarros/triagem/internal/tui"
	"github.com/abarros/triagem/internal/workflow"
)

func submitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an access request",
		Long: `Submit a new facility-access request. Providers are screened against
the verification history; those with avoidable work are dropped from the
request and recorded in the savings ledger.

By default an interactive form collects the request. Use --file to
submit providers from a spreadsheet instead.

Examples:
  triagem submit
  triagem submit --file prestadores.xlsx --company "Construtora Alfa" --requested-by maria
  triagem submit --dry-run`,
		RunE: runSubmit,
	}

	cmd.Flags().StringP("file", "f", "", "Spreadsheet with the providers to submit")
	cmd.Flags().String("company", "", "Company every provider works for (file mode)")
	cmd.Flags().String("requested-by", "", "Who is making the request (file mode)")
	cmd.Flags().Bool("dry-run", false, "Screen and report without persisting anything")

	_ = viper.BindPFlag("submit.file", cmd.Flags().Lookup("file"))
	_ = viper.BindPFlag("submit.company", cmd.Flags().Lookup("company"))
	_ = viper.BindPFlag("submit.requested_by", cmd.Flags().Lookup("requested-by"))
	_ = viper.BindPFlag("submit.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dryRun := viper.GetBool("submit.dry_run")

	submission, ok, err := collectSubmission()
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("Submission cancelled")
		return nil
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

	processor := workflow.NewProcessor(store, newScreener(store))
	processor.SetDryRun(dryRun)

	result, err := processor.Process(ctx, submission)
	if err != nil {
		if errors.Is(err, common.ErrValidationBlocked) {
			fmt.Println(cli.FormatError("Request blocked: " + err.Error()))
			return nil
		}
		return fmt.Errorf("submission failed: %w", err)
	}

	fmt.Println(cli.RenderClassifications(result.Classifications))
	fmt.Println(cli.RenderStats(result.Stats))

	switch {
	case dryRun:
		fmt.Println(cli.FormatInfo("Dry run: nothing was persisted"))
	case result.PureSavings():
		fmt.Println(cli.FormatSuccess("Every provider was covered by prior work; no request was created"))
	default:
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Request %s created with %d provider(s)", result.RequestID, len(result.Persisted))))
	}
	return nil
}

// collectSubmission gathers the request either interactively or from the
// spreadsheet named by --file.
func collectSubmission() (workflow.Submission, bool, error) {
	file := viper.GetString("submit.file")
	if file == "" {
		return tui.Run()
	}

	providers, err := importer.ParseProviders(file)
	if err != nil {
		return workflow.Submission{}, false, fmt.Errorf("failed to read providers: %w", err)
	}

	submission := workflow.Submission{
		RequestedBy: viper.GetString("submit.requested_by"),
		Form:        form.Seed(viper.GetString("submit.company"), providers),
		Providers:   providers,
	}
	return submission, true, nil
}
