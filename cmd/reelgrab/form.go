package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelgrab/pkg/orchestrator"
	"reelgrab/pkg/ui"
	"reelgrab/pkg/ui/tui"
)

// formCmd represents the form command
var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Open the interactive download form",
	Long: `Open a terminal form with a URL input, a paste key and a download key.

Keys:
  enter    download the reel
  ctrl+v   paste the URL from the clipboard
  esc      quit

Console logging is off while the form is open. Logs still go to
logging.file when one is configured; pass --log-level to log to the
console as well.`,
	Args: cobra.NoArgs,
	RunE: runForm,
}

func init() {
	rootCmd.AddCommand(formCmd)

	formCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads")
	formCmd.Flags().StringVarP(&filename, "filename", "f", "", "file name to save as")
	formCmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite an existing file instead of numbering")
}

func runForm(cmd *cobra.Command, args []string) error {
	flags := localDownloadFlags(cmd)
	if !cmd.Flags().Changed("log-level") {
		// console logs would draw over the form
		flags["log-file-only"] = true
	}

	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if !cfg.Logging.FileOnly && cfg.Logging.Level != "disabled" {
		ui.PrintWarning("Logging to the console while the form is open; drop --log-level to keep the screen clean")
	}

	toasts := tui.NewChannelNotifier()
	notifiers := orchestrator.MultiNotifier{toasts}
	if d := ui.NewDesktopNotifier(cfg.Notifications); d != nil {
		notifiers = append(notifiers, d)
	}

	orch, store, err := newLocalOrchestrator(cfg, notifiers)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	if err := tui.NewTUI(ctx, orch, toasts).Start(); err != nil {
		return err
	}

	if last, ok := store.LastSaved(); ok {
		ui.PrintSuccess(fmt.Sprintf("Saved %d reel(s), last one at %s", store.GetSavedCount(), last))
	}
	return nil
}
