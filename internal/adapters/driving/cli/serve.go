package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/coursefind-cli/internal/core/domain"
	"github.com/custodia-labs/coursefind-cli/internal/logger"
	"github.com/custodia-labs/coursefind-cli/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search queries over HTTP",
	Long: `Starts an HTTP endpoint for search and similar-course queries.
The course file is watched for changes; edits trigger a rebuild and the
new index is swapped in without dropping in-flight requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, embedder, llm, err := buildQueryService(ctx, cfg)
	if errors.Is(err, domain.ErrNotFound) {
		// No index yet: start anyway and let the first successful build
		// bring the endpoint up. Searches 503 until then.
		logger.Warn("no index found, serving degraded until first build")
		svc, embedder, llm, err = buildQueryServiceWithoutIndex(ctx, cfg)
	}
	if err != nil {
		return err
	}
	defer embedder.Close()
	defer llm.Close()

	indexer, source, err := buildIndexer(cfg, embedder,
		withIndexSwap(svc))
	if err != nil {
		return err
	}
	defer source.Close()

	srv := server.New(cfg.Server.Addr, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		return server.WatchCourses(gctx, cfg.Data.CoursesPath, func(ctx context.Context) error {
			_, err := indexer.Build(ctx)
			return err
		})
	})

	cmd.Printf("Serving on %s (watching %s)\n", cfg.Server.Addr, cfg.Data.CoursesPath)
	return g.Wait()
}
