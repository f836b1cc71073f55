package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a question about the course catalogue",
	Long: `Answers a natural-language question using the built index.
Out-of-scope questions are politely declined without touching the
embedding or generation backends.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	result, err := svc.Search(ctx, args[0])
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(result.Answer)
	if len(result.Matches) > 0 {
		cmd.Println()
		cmd.Println("Matched courses:")
		for _, match := range result.Matches {
			cmd.Printf("  - %s (%s)\n    %s\n", match.Title, match.Price, match.URL)
		}
	}
	return nil
}
