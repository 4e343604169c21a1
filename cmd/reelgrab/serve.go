package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"reelgrab/internal/server"
	"reelgrab/pkg/logger"
	"reelgrab/pkg/ui"
)

var (
	// serve command flags
	addr          string
	maxConcurrent int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web download form",
	Long: `Serve a small web page where a browser can paste a reel link and get the
video back as a download. Each browser gets its own session so one user's
download never blocks another's. Downloads run on a bounded worker pool.`,
	Example: `  # Listen on the default address
  reelgrab serve

  # Listen on port 3000 with two workers
  reelgrab serve --addr :3000 --max-concurrent 2`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	serveCmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "downloads running at once across all sessions")
}

func runServe(cmd *cobra.Command, args []string) error {
	flags := map[string]interface{}{}
	if addr != "" {
		flags["addr"] = addr
	}
	if maxConcurrent > 0 {
		flags["max-concurrent"] = maxConcurrent
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ui.PrintLogo(version)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	client := newExtractionClient(cfg)
	srv, err := server.New(server.Options{
		Config:    cfg,
		Extractor: client,
		Fetcher:   client,
		Logger:    logger.GetLogger(),
		Version:   version,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	ui.PrintInfo("Listening on", cfg.Server.Addr)
	ui.PrintInfo("Extraction endpoint", client.Endpoint())

	ctx, cancel := signalContext()
	defer cancel()

	return srv.Run(ctx)
}
