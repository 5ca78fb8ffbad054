package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"blogfinder/pkg/config"
	"blogfinder/pkg/ui"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage blogfinder configuration files.

Configuration is merged from, highest priority first:
  - Command line flags
  - Environment variables (BLOGFINDER_*, TUMBLR_*)
  - .env files (./.env, ~/.blogfinder.env)
  - Configuration file
  - Default values`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: `Write the default configuration as YAML.

The file goes to ~/.config/blogfinder/config.yaml unless --config names
another path. An existing file is never overwritten.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging every source.

Credentials are masked.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration is ready for a search",
	Long: `Check option ranges, that at least one theme is configured and that
credentials can be found.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("configuration file already exists: %s", path)}
	}

	cfg := config.DefaultConfig()
	cfg.Search.Themes = []string{"surf", "hiking"}
	if err := cfg.Save(path); err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	ui.PrintSuccess("Configuration file created: " + path)
	fmt.Fprintln(ui.Output, "\nNext steps:")
	fmt.Fprintln(ui.Output, "1. Edit the themes and thresholds")
	fmt.Fprintln(ui.Output, "2. Run 'blogfinder auth login' to store Tumblr credentials")
	fmt.Fprintln(ui.Output, "3. Run 'blogfinder config validate'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to format configuration: %w", err)}
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Fprintln(ui.Output)
	fmt.Fprint(ui.Output, string(data))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	problems := []error{}
	if err := resolveCredentials(cfg, nil); err != nil {
		problems = append(problems, err)
	}
	if err := cfg.ValidateForRun(); err != nil {
		problems = append(problems, err)
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create log directory: %w", err))
		}
	}
	if cfg.Output.Directory != "" {
		if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
			problems = append(problems, fmt.Errorf("cannot create output directory: %w", err))
		}
	}

	if len(problems) > 0 {
		return &exitError{code: exitFailure, err: fmt.Errorf("configuration has errors:\n%w", errors.Join(problems...))}
	}

	ui.PrintSuccess("Configuration is valid")
	ui.PrintInfo("Themes", fmt.Sprint(cfg.Search.Themes))
	ui.PrintInfo("Output", cfg.OutputBase()+".{json,csv}")
	ui.PrintInfo("Min followers", fmt.Sprint(cfg.Filter.MinFollowers))
	ui.PrintInfo("Max days inactive", fmt.Sprint(cfg.Filter.MaxDaysInactive))
	ui.PrintInfo("Hourly budget", fmt.Sprint(cfg.RateLimit.HourlyBudget))
	return nil
}
