// Package enrich implements the enrich command: augment scraped products
// with model-generated gift-matching attributes.
package enrich

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftmatch/catalog-ingest/cmd/common"
)

// Command returns the enrich command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "enrich <scraped-artifact>",
		Short: "Enrich scraped products with gift-matching attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(*cfgFile, *debug)
			if err != nil {
				return err
			}

			stage, err := deps.EnrichStage()
			if err != nil {
				return err
			}

			tally, err := stage.Run(cmd.Context(), args[0], output)
			if err != nil {
				return err
			}
			if tally.Empty() {
				return fmt.Errorf("no products were successfully enriched")
			}

			deps.Logger.Info("artifact written", "path", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "enriched_products.json", "output JSON artifact")

	return cmd
}
