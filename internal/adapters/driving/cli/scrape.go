package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursefind-cli/internal/connectors/browser"
	"github.com/custodia-labs/coursefind-cli/internal/connectors/static"
	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/core/ports/driven"
)

var scrapeStatic bool

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the course catalogue to the course file",
	Long: `Scrapes the configured catalogue and writes the records to the course
file as JSON. Uses a headless browser by default so lazy-loaded
listings are captured; --static falls back to plain HTTP for
server-rendered catalogues.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeStatic, "static", false, "scrape over plain HTTP instead of a headless browser")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	var source driven.CourseSource
	if scrapeStatic {
		source, err = static.NewSource(static.Config{
			BaseURL:           cfg.Scrape.BaseURL,
			RequestsPerSecond: cfg.Scrape.RequestsPerSecond,
		})
	} else {
		source, err = browser.NewSource(ctx, browser.Config{
			BaseURL:  cfg.Scrape.BaseURL,
			Headless: cfg.Scrape.Headless,
		})
	}
	if err != nil {
		return err
	}
	defer source.Close()

	records, err := source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("scraping catalogue: %w", err)
	}
	records = domain.DedupeByURL(records)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := os.WriteFile(cfg.Data.CoursesPath, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Data.CoursesPath, err)
	}

	cmd.Printf("Scraped %d courses to %s.\n", len(records), cfg.Data.CoursesPath)
	return nil
}
