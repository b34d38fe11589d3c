// Package store implements the store command: compute embeddings for
// enriched products and insert them into the catalog database. Without
// --bulk it prompts for a single product interactively.
package store

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/giftmatch/catalog-ingest/cmd/common"
)

// Command returns the store command.
func Command(cfgFile *string, debug *bool) *cobra.Command {
	var bulkFile string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store enriched products with embeddings in the catalog",
		Long: `Store products in the catalog database with auto-generated embeddings
for semantic search.

With --bulk, imports every product from an enriched JSON artifact. Without
it, prompts interactively for a single product's fields.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewDeps(*cfgFile, *debug)
			if err != nil {
				return err
			}

			stage, db, err := deps.StoreStage()
			if err != nil {
				return err
			}
			defer db.Close()

			if bulkFile == "" {
				return runInteractive(cmd, stage)
			}

			tally, err := stage.Run(cmd.Context(), bulkFile)
			if err != nil {
				return err
			}
			if tally.Empty() {
				return fmt.Errorf("no products were successfully stored")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&bulkFile, "bulk", "", "enriched JSON artifact to import")

	return cmd
}
