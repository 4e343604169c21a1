package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"reelgrab/pkg/auth"
	"reelgrab/pkg/config"
	"reelgrab/pkg/ui"
)

var forceInit bool

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage reelgrab configuration files.

Configuration is loaded from, highest priority first:
  - Command line flags
  - Environment variables (REELGRAB_*)
  - .env files
  - Configuration file
  - Default values`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file holding every option at its default value.

The file is created as .reelgrab.yaml in the current directory unless a
different path is given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source. The API token is
masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load and validate the configuration, then check that the output and log
directories can be created.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)

	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.DefaultLocations()[0]
	}

	if _, err := os.Stat(configPath); err == nil && !forceInit {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nUse --force to overwrite it.")
		return errReported
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the file, for example to point extraction.endpoint at your own service")
	fmt.Println("2. Run 'reelgrab config validate' to check it")
	fmt.Println("3. Download with 'reelgrab get <url>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	display := *cfg
	if display.Extraction.APIToken != "" {
		display.Extraction.APIToken = auth.Mask(display.Extraction.APIToken)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration file search path:")
	if configFile != "" {
		fmt.Printf("  %s (from --config)\n", configFile)
	}
	for _, loc := range config.DefaultLocations() {
		marker := " "
		if _, err := os.Stat(loc); err == nil {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, loc)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		return errReported
	}

	var problems []string
	if err := os.MkdirAll(cfg.Download.OutputDir, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return errReported
	}

	if cfg.Extraction.RequestsPerMinute == 0 {
		ui.PrintWarning("Extraction requests are not rate limited")
	}

	ui.PrintSuccess("Configuration is valid")

	maxSize := "no limit"
	if cfg.Download.MaxFileSize > 0 {
		maxSize = humanize.Bytes(uint64(cfg.Download.MaxFileSize))
	}

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Extraction endpoint: %s\n", cfg.Extraction.Endpoint)
	fmt.Printf("  Output directory: %s\n", cfg.Download.OutputDir)
	fmt.Printf("  File name: %s\n", cfg.Download.Filename)
	fmt.Printf("  Max file size: %s\n", maxSize)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.Extraction.RequestsPerMinute)
	fmt.Printf("  Server: %s, %d workers\n", cfg.Server.Addr, cfg.Server.MaxConcurrent)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
