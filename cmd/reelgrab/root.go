package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"reelgrab/pkg/auth"
	"reelgrab/pkg/config"
	"reelgrab/pkg/extractor"
	"reelgrab/pkg/logger"
	"reelgrab/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	endpoint      string
	profile       string
	noColor       bool
	notifications bool
	desktop       bool
	quiet         bool
)

// errReported marks a failure the user has already been shown
var errReported = errors.New("already reported")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reelgrab",
	Short: "Download Instagram reels from the terminal or a browser",
	Long: `reelgrab downloads Instagram reels and posts through a remote extraction
service and saves the video locally.

Ways to use it:
  - reelgrab get <url>     one shot download
  - reelgrab form          interactive terminal form
  - reelgrab serve         web form for browsers`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
		if quiet {
			ui.SetQuietMode(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			ui.PrintError(err.Error())
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.reelgrab.yaml or ~/.config/reelgrab/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "extraction service endpoint")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", auth.DefaultProfile, "stored API token profile")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "show info and success notifications")
	rootCmd.PersistentFlags().BoolVar(&desktop, "desktop-notifications", false, "also send desktop notifications")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`reelgrab {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig loads configuration with the flags the user actually set
// taking precedence, then initializes logging
func loadConfig(cmd *cobra.Command, local map[string]interface{}) (*config.Config, error) {
	flags := make(map[string]interface{})
	for k, v := range local {
		flags[k] = v
	}

	pf := cmd.Flags()
	if pf.Changed("endpoint") {
		flags["endpoint"] = endpoint
	}
	if pf.Changed("log-level") {
		flags["log-level"] = logLevel
	}
	if pf.Changed("notifications") {
		flags["notifications"] = notifications
	}
	if pf.Changed("desktop-notifications") {
		flags["desktop-notifications"] = desktop
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}

// newExtractionClient builds the extraction client, picking up a stored API
// token for the selected profile when the config does not carry one
func newExtractionClient(cfg *config.Config) *extractor.Client {
	extraction := cfg.Extraction

	var tok *auth.Token
	if extraction.APIToken == "" {
		tok = lookupToken()
		if tok != nil && tok.Endpoint != "" && extraction.Endpoint == config.DefaultEndpoint {
			extraction.Endpoint = tok.Endpoint
		}
	}

	client := extractor.NewClient(extraction, cfg.Download, logger.GetLogger())
	if tok != nil {
		client.SetAPIToken(tok.Value)
	}
	return client
}

func lookupToken() *auth.Token {
	manager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Debug("Credential manager unavailable")
		return nil
	}

	tok, err := manager.Retrieve(profile)
	if err != nil {
		if !errors.Is(err, auth.ErrTokenNotFound) {
			logger.WithError(err).Warn("Failed to read stored API token")
		}
		return nil
	}
	return tok
}

// signalContext is cancelled on interrupt or terminate
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
