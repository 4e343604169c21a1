package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"reelgrab/pkg/auth"
	"reelgrab/pkg/ui"
)

var tokenEndpoint string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage extraction service API tokens",
	Long: `Manage API tokens for self hosted extraction services.

The public extraction service needs no token. Tokens are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - REELGRAB_API_TOKEN environment variable (read only)

Select a stored token with --profile.`,
}

// setTokenCmd represents the auth set-token command
var setTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store an API token",
	Long: `Store an API token for the selected profile. The token is read from the
terminal without echo, or from stdin when it is not a terminal.`,
	Example: `  # Store the default token
  reelgrab auth set-token

  # Store a token for another service
  reelgrab auth set-token --profile work --token-endpoint https://extract.example.com/reel`,
	Args: cobra.NoArgs,
	RunE: runSetToken,
}

// showTokenCmd represents the auth show command
var showTokenCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored tokens",
	Long:  `List stored tokens with their values masked.`,
	Args:  cobra.NoArgs,
	RunE:  runShowTokens,
}

// deleteTokenCmd represents the auth delete command
var deleteTokenCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the token of the selected profile",
	Args:  cobra.NoArgs,
	RunE:  runDeleteToken,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(setTokenCmd)
	authCmd.AddCommand(showTokenCmd)
	authCmd.AddCommand(deleteTokenCmd)

	setTokenCmd.Flags().StringVar(&tokenEndpoint, "token-endpoint", "", "extraction endpoint this token belongs to")
}

func runSetToken(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if existing, err := manager.Retrieve(profile); err == nil && existing != nil {
		fmt.Printf("A token for profile '%s' already exists. Replace it? (y/N): ", profile)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
			return nil
		}
	}

	fmt.Print("API token: ")
	value, err := readSecret()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if value == "" {
		return errors.New("token is required")
	}

	if err := manager.Store(&auth.Token{
		Profile:  profile,
		Value:    value,
		Endpoint: tokenEndpoint,
	}); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Token stored for profile '%s'", profile))
	return nil
}

func runShowTokens(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	tokens, err := manager.List()
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		ui.PrintWarning("No stored tokens")
		fmt.Println("\nStore one with 'reelgrab auth set-token'.")
		return nil
	}

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Profile < tokens[j].Profile })

	fmt.Printf("Stored tokens (%d):\n\n", len(tokens))
	for _, tok := range tokens {
		fmt.Printf("  Profile: %s\n", ui.Bold(tok.Profile))
		fmt.Printf("  Token: %s\n", auth.Mask(tok.Value))
		if tok.Endpoint != "" {
			fmt.Printf("  Endpoint: %s\n", tok.Endpoint)
		}
		if !tok.LastModified.IsZero() {
			fmt.Printf("  Last Modified: %s\n", tok.LastModified.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}

func runDeleteToken(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	if err := manager.Delete(profile); err != nil {
		if errors.Is(err, auth.ErrTokenNotFound) {
			ui.PrintWarning(fmt.Sprintf("No token stored for profile '%s'", profile))
			return nil
		}
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Token removed for profile '%s'", profile))
	return nil
}

// readSecret reads a secret from stdin without echoing when stdin is a terminal
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(secret)), nil
	}

	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
