package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursefind-cli/internal/adapters/driven/ai"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the course index",
	Long: `Reads the configured course file, normalises and chunks the records,
embeds the chunks and persists the index. Replaces any existing index
atomically.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	embedder, err := ai.CreateAndValidateEmbeddingService(ctx, cfg.Embedding)
	if err != nil {
		return err
	}
	defer embedder.Close()

	indexer, source, err := buildIndexer(cfg, embedder)
	if err != nil {
		return err
	}
	defer source.Close()

	count, err := indexer.Build(ctx)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	cmd.Printf("Indexed %d chunks from %s.\n", count, cfg.Data.CoursesPath)
	return nil
}
