package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursefind-cli/internal/core/services"
)

var (
	similarCount int
	similarJSON  bool
)

var similarCmd = &cobra.Command{
	Use:   "similar [course]",
	Short: "Find courses similar to a course title or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimilar,
}

func init() {
	similarCmd.Flags().IntVarP(&similarCount, "count", "n", services.DefaultSimilarCourses, "number of similar courses")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(similarCmd)
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	svc, embedder, llm, err := buildQueryService(ctx, cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()
	defer llm.Close()

	matches, err := svc.FindSimilar(ctx, args[0], similarCount)
	if err != nil {
		return err
	}

	if similarJSON {
		data, err := json.MarshalIndent(matches, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(matches) == 0 {
		cmd.Println("No similar courses found.")
		return nil
	}
	for i, match := range matches {
		cmd.Printf("%d. %s (%s)\n   %s\n", i+1, match.Title, match.Price, match.URL)
	}
	return nil
}
