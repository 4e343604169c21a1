package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelgrab/pkg/clipboard"
	"reelgrab/pkg/config"
	"reelgrab/pkg/logger"
	"reelgrab/pkg/orchestrator"
	"reelgrab/pkg/storage"
	"reelgrab/pkg/ui"
)

var (
	// get command flags
	outputDir string
	filename  string
	overwrite bool
	fromPaste bool
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get [url]",
	Short: "Download one reel",
	Long: `Download a single Instagram reel or post video.

Accepted links:
  https://www.instagram.com/reels/<id>/
  https://www.instagram.com/p/<id>/

The video is saved as instagram-reel.mp4 in the output directory. An
existing file is kept and the new one gets a numbered name unless
--overwrite is set.`,
	Example: `  # Download a reel
  reelgrab get https://www.instagram.com/reels/C1a2b3c4d5/

  # Download the link currently on the clipboard
  reelgrab get --paste

  # Save somewhere else
  reelgrab get https://www.instagram.com/p/C1a2b3c4d5/ -o ~/Videos`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads")
	getCmd.Flags().StringVarP(&filename, "filename", "f", "", "file name to save as (default "+config.DefaultFilename+")")
	getCmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing file instead of numbering")
	getCmd.Flags().BoolVarP(&fromPaste, "paste", "p", false, "read the URL from the clipboard")
}

func localDownloadFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if filename != "" {
		flags["filename"] = filename
	}
	if cmd.Flags().Changed("overwrite") {
		flags["overwrite"] = overwrite
	}
	return flags
}

// newLocalOrchestrator wires an orchestrator that saves to disk and reads
// the system clipboard
func newLocalOrchestrator(cfg *config.Config, notifier orchestrator.Notifier) (*orchestrator.Orchestrator, *storage.Manager, error) {
	store, err := storage.NewManager(cfg.Download.OutputDir, cfg.Download.OverwriteExisting)
	if err != nil {
		return nil, nil, err
	}

	client := newExtractionClient(cfg)
	orch, err := orchestrator.New(orchestrator.Options{
		Extractor: client,
		Fetcher:   client,
		Saver:     store,
		Clipboard: clipboard.NewSystemReader(),
		Notifier:  notifier,
		Filename:  cfg.Download.Filename,
		Logger:    logger.GetLogger(),
	})
	if err != nil {
		return nil, nil, err
	}
	return orch, store, nil
}

func runGet(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !fromPaste {
		return fmt.Errorf("a reel URL or --paste is required")
	}

	cfg, err := loadConfig(cmd, localDownloadFlags(cmd))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ui.PrintLogo(version)

	orch, store, err := newLocalOrchestrator(cfg, ui.NewNotifier(cfg.Notifications))
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	var rawURL string
	if len(args) > 0 {
		rawURL = args[0]
	}
	if fromPaste {
		text, ok := orch.Paste(ctx)
		if !ok {
			return errReported
		}
		rawURL = strings.TrimSpace(text)
		ui.PrintInfo("Pasted", rawURL)
	}

	ui.PrintInfo("Saving to", store.GetOutputDir())

	statuses, unsubscribe := orch.Subscribe()
	indicatorCtx, stopIndicator := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ui.NewActivityIndicator(ui.Output).Run(indicatorCtx, statuses)
	}()

	orch.DownloadReel(ctx, rawURL)

	unsubscribe()
	stopIndicator()
	<-done

	if status := orch.Status(); status.LastError != "" {
		return errReported
	}
	return nil
}
