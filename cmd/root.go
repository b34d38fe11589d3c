// Package cmd implements the command-line interface for the catalog ingest
// pipeline: scraping Amazon listings, enriching them with gift-matching
// attributes, and storing them with embeddings.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	cmdenrich "github.com/giftmatch/catalog-ingest/cmd/enrich"
	cmdpipeline "github.com/giftmatch/catalog-ingest/cmd/pipeline"
	cmdscrape "github.com/giftmatch/catalog-ingest/cmd/scrape"
	cmdstore "github.com/giftmatch/catalog-ingest/cmd/store"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the catalog CLI.
	rootCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Gift catalog ingest pipeline",
		Long:  `Scrape Amazon product listings, enrich them with gift-matching attributes, and store them with embeddings for semantic search.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("catalog version %s\n", version)
		},
	})

	rootCmd.AddCommand(cmdscrape.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdenrich.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdstore.Command(&cfgFile, &debug))
	rootCmd.AddCommand(cmdpipeline.Command(&cfgFile, &debug))
}
