package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build a knowledge graph from news articles",
	Long: `Fetch news articles for a query, extract entities and relationships with
the configured language model, persist them to the graph store and print
degree rankings. The accumulated graph is exported as SVG and JSON.

Examples:
  ingest --query Apple --from 2024-10-21 --to 2024-10-22
  ingest --query "OpenAI" --page-size 20 --no-store
  ingest --query Apple --upload     # also upload exports to S3
`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return run(cmd.Context(), cmd.OutOrStdout(), opts)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringP("query", "q", "Apple", "Search query for the news API")
	f.String("from", "", "Oldest article date (YYYY-MM-DD)")
	f.String("to", "", "Newest article date (YYYY-MM-DD)")
	f.String("language", "en", "Article language (ISO 639-1)")
	f.Int("page-size", 5, "Number of articles to fetch (max 100)")
	f.Int("top", 5, "Number of entities in each ranking")
	f.String("out", "output", "Directory for SVG and JSON exports")
	f.Bool("no-store", false, "Only accumulate in memory, do not persist to the graph store")
	f.Bool("raw-text", false, "Send article text to the model without normalization")
	f.Bool("upload", false, "Upload exports to the configured S3 bucket")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
