package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"blogfinder/pkg/ui"

	"github.com/spf13/cobra"
)

var (
	// Version information, set with -ldflags at build time
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// exitError carries a process exit code out of a command
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// rootCmd searches when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "blogfinder",
	Short: "Find active Tumblr blogs in a region from tag searches",
	Long: `blogfinder walks Tumblr tag searches for a list of themes, profiles every
distinct blog it finds once, and keeps the blogs that name a known location,
have enough followers and posted recently.

Results are written as JSON and CSV. Interrupting a run with Ctrl+C keeps
everything qualified so far.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.Cyan, ui.Yellow, ui.Red = plain, plain, plain
			ui.Green, ui.Magenta, ui.Dim = plain, plain, plain
		}
	},
}

func plain(s string) string { return s }

// Execute runs the root command and exits with its status
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exit *exitError
	if errors.As(err, &exit) {
		if exit.err != nil {
			ui.PrintError("Error", exit.err)
		}
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitFailure)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default .blogfinder.yaml or ~/.config/blogfinder/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate(`blogfinder {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
