package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"blogfinder/pkg/auth"
	"blogfinder/pkg/ui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var callbackURL string

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Tumblr credentials",
	Long: `Manage stored Tumblr OAuth credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (TUMBLR_*, read only)`,
}

var loginCmd = &cobra.Command{
	Use:   "login [name]",
	Short: "Authorize blogfinder with your Tumblr account",
	Long: `Authorize blogfinder with your Tumblr account and store the result.

You will be asked for your application's consumer key and secret, then
given a link to approve access. Paste the address your browser lands on
afterwards and the access token is stored under the given name
(default "default").`,
	Example: `  blogfinder auth login
  blogfinder auth login work`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List stored accounts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var logoutCmd = &cobra.Command{
	Use:   "logout [name]",
	Short: "Remove stored credentials",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(statusCmd)
	authCmd.AddCommand(logoutCmd)

	loginCmd.Flags().StringVar(&callbackURL, "callback-url", auth.DefaultCallbackURL, "callback URL registered for your application")
}

func runLogin(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to initialize credential manager: %w", err)}
	}

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	reader := bufio.NewReader(os.Stdin)
	auth.ShowAppRegistrationGuide(ui.Output)
	fmt.Fprintln(ui.Output)

	if existing, _ := manager.Retrieve(name); existing != nil {
		if !confirm(reader, fmt.Sprintf("Account '%s' already exists. Replace it? (y/N): ", name)) {
			return nil
		}
	}

	fmt.Fprint(ui.Output, "OAuth consumer key: ")
	consumerKey, err := readSecret(reader)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to read consumer key: %w", err)}
	}
	fmt.Fprint(ui.Output, "OAuth consumer secret: ")
	consumerSecret, err := readSecret(reader)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to read consumer secret: %w", err)}
	}
	if consumerKey == "" || consumerSecret == "" {
		return &exitError{code: exitFailure, err: errors.New("consumer key and secret are required")}
	}

	flow := auth.NewOAuthFlow(consumerKey, consumerSecret, callbackURL)
	authURL, err := flow.Start()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	fmt.Fprintln(ui.Output, "\nOpen this link and approve access:")
	fmt.Fprintf(ui.Output, "  %s\n\n", ui.Cyan(authURL))
	fmt.Fprint(ui.Output, "Paste the address you were redirected to: ")
	callback, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to read callback: %w", err)}
	}

	account, err := flow.Finish(name, callback)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if err := manager.Store(account); err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	ui.PrintSuccess(fmt.Sprintf("\nCredentials stored as '%s'", account.Name))
	fmt.Fprintln(ui.Output, "\nStart searching with:")
	fmt.Fprintln(ui.Output, "  blogfinder --themes surf,hiking")
	if account.Name != auth.DefaultAccount {
		fmt.Fprintf(ui.Output, "  blogfinder --themes surf --account %s\n", account.Name)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to initialize credential manager: %w", err)}
	}

	accounts, err := manager.List()
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if len(accounts) == 0 {
		ui.PrintWarning("No stored accounts. Run 'blogfinder auth login' to add one.")
		return nil
	}

	ui.PrintHighlight("Stored Accounts")
	for i, account := range accounts {
		s := auth.SanitizeAccount(account)
		fmt.Fprintf(ui.Output, "\n%d. %s\n", i+1, s.Name)
		fmt.Fprintf(ui.Output, "   Consumer key: %s\n", s.ConsumerKey)
		fmt.Fprintf(ui.Output, "   OAuth token:  %s\n", s.OAuthToken)
		if !s.LastModified.IsZero() {
			fmt.Fprintf(ui.Output, "   Modified:     %s\n", s.LastModified.Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to initialize credential manager: %w", err)}
	}

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = args[0]
	}
	if err := manager.Delete(name); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	ui.PrintSuccess("Account removed: " + name)
	return nil
}

func confirm(reader *bufio.Reader, prompt string) bool {
	fmt.Fprint(ui.Output, prompt)
	input, _ := reader.ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y")
}

// readSecret reads a value without echo when stdin is a terminal
func readSecret(reader *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(ui.Output)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
