// Package pipeline implements the pipeline command: the full
// scrape -> enrich -> store run over a batch of listing URLs.
package pipeline

import (
	"errors"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/giftmatch/catalog-ingest/cmd/common"
	"github.com/giftmatch/catalog-ingest/internal/domain"
	"github.com/giftmatch/catalog-ingest/internal/pipeline"
)

// Command returns the pipeline command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var (
		urlFile   string
		outputDir string
		keepFiles bool
	)

	cmd := &cobra.Command{
		Use:   "pipeline [urls...]",
		Short: "Run the full scrape, enrich, and store pipeline",
		Long: `Run the complete product import pipeline:

 1. Scrape product data from Amazon listing URLs
 2. Enrich products with model-generated gift-matching attributes
 3. Store products in the catalog with embeddings

Intermediate artifacts go to a temporary directory removed after the run;
use --output-dir or --keep-files to retain them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(*cfgFile, *debug)
			if err != nil {
				return err
			}

			urls, err := common.CollectURLs(args, urlFile)
			if err != nil {
				return err
			}

			enrichStage, err := deps.EnrichStage()
			if err != nil {
				return err
			}
			storeStage, db, err := deps.StoreStage()
			if err != nil {
				return err
			}
			defer db.Close()

			controller := pipeline.NewController(
				deps.ScrapeStage(),
				enrichStage,
				storeStage,
				deps.Logger,
			)

			result, runErr := controller.Run(cmd.Context(), urls, pipeline.Options{
				OutputDir: outputDir,
				KeepFiles: keepFiles,
			})
			if result != nil {
				renderSummary(result)
			}

			var emptyErr *pipeline.StageEmptyError
			if errors.As(runErr, &emptyErr) {
				deps.Logger.Error("pipeline aborted", "stage", emptyErr.Stage)
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&urlFile, "file", "f", "", "file containing listing URLs, one per line")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for intermediate artifacts (implies retention)")
	cmd.Flags().BoolVarP(&keepFiles, "keep-files", "k", false, "keep intermediate artifacts after the run")

	return cmd
}

// renderSummary prints the per-stage tallies as a table.
func renderSummary(result *pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Stage", "Succeeded", "Failed"})
	for _, row := range []struct {
		name  string
		tally domain.Tally
	}{
		{"scrape", result.Scrape},
		{"enrich", result.Enrich},
		{"store", result.Store},
	} {
		t.AppendRow(table.Row{row.name, row.tally.Succeeded, row.tally.Failed})
	}

	t.Render()
}
