// Package scrape implements the scrape command: fetch Amazon listing pages
// and extract structured product records into a JSON artifact.
package scrape

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftmatch/catalog-ingest/cmd/common"
)

// Command returns the scrape command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var (
		urlFile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "scrape [urls...]",
		Short: "Scrape Amazon product listings into a JSON artifact",
		Long: `Scrape product information from Amazon listing URLs.

URLs are given as arguments, read from a file with --file (one per line,
'#' comments skipped), or both. The output artifact feeds the enrich command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(*cfgFile, *debug)
			if err != nil {
				return err
			}

			urls, err := common.CollectURLs(args, urlFile)
			if err != nil {
				return err
			}

			tally, err := deps.ScrapeStage().Run(cmd.Context(), urls, output)
			if err != nil {
				return err
			}
			if tally.Empty() {
				return fmt.Errorf("no products were successfully scraped")
			}

			deps.Logger.Info("artifact written", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&urlFile, "file", "f", "", "file containing listing URLs, one per line")
	cmd.Flags().StringVarP(&output, "output", "o", "scraped_products.json", "output JSON artifact")

	return cmd
}
