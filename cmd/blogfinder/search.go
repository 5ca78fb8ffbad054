package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"blogfinder/pkg/auth"
	"blogfinder/pkg/config"
	"blogfinder/pkg/export"
	"blogfinder/pkg/filter"
	"blogfinder/pkg/logger"
	"blogfinder/pkg/ratelimit"
	"blogfinder/pkg/search"
	"blogfinder/pkg/tumblr"
	"blogfinder/pkg/ui"
	"blogfinder/pkg/ui/tui"

	"github.com/spf13/cobra"
)

var (
	// Search command flags
	themes           []string
	outputBase       string
	maxPostsPerTheme int
	pageSize         int
	minFollowers     int
	maxDaysInactive  int
	wordBoundary     bool
	postMentions     bool
	useTUI           bool
	quiet            bool
	accountName      string
	notify           bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search themes and export qualifying blogs",
	Long: `Search Tumblr tags for each theme, profile each distinct blog once and
export the blogs that qualify.

A blog qualifies when its URL, title, description or tags name a known
location, it has more than --min-followers followers, and its last post is
no older than --max-days-inactive days.

Credentials are taken from the configuration, TUMBLR_* environment variables
or a stored account (see 'blogfinder auth login').`,
	Example: `  # Search three themes with default thresholds
  blogfinder --themes surf,hiking,vegan

  # Stricter thresholds and a custom output name
  blogfinder search --themes surf --min-followers 100 --max-days-inactive 30 -o surf_blogs

  # Accept locations named in the post itself, with the full-screen view
  blogfinder search --themes "bay area food" --post-mentions --tui`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)

	// searching is the default when no subcommand is given
	addSearchFlags(rootCmd)
	rootCmd.RunE = runSearch
	rootCmd.Args = cobra.NoArgs
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&themes, "themes", "t", nil, "comma separated themes to search")
	cmd.Flags().StringVarP(&outputBase, "output", "o", "", "output base name; .json and .csv are appended (default \"results\")")
	cmd.Flags().IntVar(&maxPostsPerTheme, "max-posts-per-theme", 500, "maximum posts examined per theme")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "posts requested per page (1-20)")
	cmd.Flags().IntVar(&minFollowers, "min-followers", 10, "followers a blog must exceed")
	cmd.Flags().IntVar(&maxDaysInactive, "max-days-inactive", 90, "maximum days since the last post")
	cmd.Flags().BoolVar(&wordBoundary, "word-boundary", false, "match location terms on word boundaries only")
	cmd.Flags().BoolVar(&postMentions, "post-mentions", false, "accept a location named in the surfacing post")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "use the interactive terminal view")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the final summary")
	cmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
}

// changedFlags collects the flags the user set, so unset flags do not
// override the config file or environment.
func changedFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := func(name string, value interface{}) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			flags[name] = value
		}
	}
	set("themes", themes)
	set("output", outputBase)
	set("max-posts-per-theme", maxPostsPerTheme)
	set("page-size", pageSize)
	set("min-followers", minFollowers)
	set("max-days-inactive", maxDaysInactive)
	set("word-boundary", wordBoundary)
	set("post-mentions", postMentions)
	set("tui", useTUI)
	set("quiet", quiet)
	set("account", accountName)
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, changedFlags(cmd))
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if cmd.Flags().Changed("notify") {
		cfg.UI.Notifications = notify
	}

	if err := resolveCredentials(cfg, nil); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if err := cfg.ValidateForRun(); err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("invalid configuration: %w", err)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var view *tui.TUI
	if cfg.UI.TUI {
		view = tui.NewTUI(cancel, cfg.RateLimit.HourlyBudget)
	}

	log, err := newRunLogger(cfg, view)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	logger.SetLogger(log)
	log.WithField("version", version).Info("blogfinder starting")

	finder, budget, err := buildFinder(cfg, log)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	if view != nil {
		return runWithTUI(ctx, cfg, finder, budget, view, log)
	}

	var display *ui.ProgressDisplay
	if cfg.UI.Quiet {
		finder.SetReporter(search.NopReporter{})
	} else {
		ui.PrintLogo()
		ui.PrintInfo("Themes", strings.Join(cfg.Search.Themes, ", "))
		display = ui.NewProgressDisplay(ui.Output)
		finder.SetReporter(display)
	}

	report, err := finder.Run(ctx, cfg.Search.Themes)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	if display != nil {
		display.Complete(report)
	}

	return finishRun(cfg, report, log, ui.NewNotifier(ui.Output, cfg.UI.Notifications))
}

// runWithTUI drives the search in the background while the full-screen view
// owns the terminal. The view stays up with a summary until the user quits.
func runWithTUI(ctx context.Context, cfg *config.Config, finder *search.Finder, budget *ratelimit.Budget, view *tui.TUI, log logger.Logger) error {
	finder.SetReporter(view)

	type outcome struct {
		report *search.Report
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		stopBudget := watchBudget(budget, view)
		report, err := finder.Run(ctx, cfg.Search.Themes)
		stopBudget()
		if err == nil {
			view.Done(summaryLines(report))
		} else {
			view.Stop()
		}
		done <- outcome{report, err}
	}()

	if err := view.Start(); err != nil {
		log.WithError(err).Error("Terminal view failed")
	}
	// quitting the view early still stops the search cleanly
	view.RequestStop()
	result := <-done

	if result.err != nil {
		return &exitError{code: exitFailure, err: result.err}
	}
	return finishRun(cfg, result.report, log, ui.NewNotifier(ui.Output, cfg.UI.Notifications))
}

// watchBudget pushes hourly budget usage to the view until stopped
func watchBudget(budget *ratelimit.Budget, view *tui.TUI) (stop func()) {
	ticker := time.NewTicker(time.Second)
	quit := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				hour, _ := budget.Used()
				view.UpdateBudget(hour)
			case <-quit:
				return
			}
		}
	}()
	return func() { close(quit) }
}

// buildFinder wires the client, rate limiting and qualification rules
func buildFinder(cfg *config.Config, log logger.Logger) (*search.Finder, *ratelimit.Budget, error) {
	client := tumblr.NewClient(tumblr.Credentials{
		ConsumerKey:    cfg.Tumblr.ConsumerKey,
		ConsumerSecret: cfg.Tumblr.ConsumerSecret,
		Token:          cfg.Tumblr.OAuthToken,
		TokenSecret:    cfg.Tumblr.OAuthSecret,
	}, cfg.Tumblr.Timeout, log)
	if cfg.Tumblr.APIBaseURL != "" {
		client.SetBaseURL(cfg.Tumblr.APIBaseURL)
	}

	gazetteer := filter.NewGazetteer(slices.Concat(filter.DefaultLocations, cfg.Filter.ExtraLocations), cfg.Filter.WordBoundary)
	qualifier := filter.NewQualifier(gazetteer, filter.Criteria{
		MinFollowers:    cfg.Filter.MinFollowers,
		MaxDaysInactive: cfg.Filter.MaxDaysInactive,
	})

	pacer := ratelimit.NewPacer(map[ratelimit.Kind]time.Duration{
		ratelimit.KindSearch:  cfg.RateLimit.SearchInterval,
		ratelimit.KindProfile: cfg.RateLimit.ProfileInterval,
	})
	var budget *ratelimit.Budget
	if cfg.RateLimit.HourlyBudget > 0 || cfg.RateLimit.DailyBudget > 0 {
		budget = ratelimit.NewBudget(cfg.RateLimit.HourlyBudget, cfg.RateLimit.DailyBudget, log)
	}

	finder, err := search.NewFinder(search.FinderConfig{
		Client:           client,
		Qualifier:        qualifier,
		Pacer:            pacer,
		Budget:           budget,
		Logger:           log,
		PageSize:         cfg.Search.PageSize,
		MaxPostsPerTheme: cfg.Search.MaxPostsPerTheme,
		UsePostMentions:  cfg.Filter.UsePostMentions,
	})
	if err != nil {
		return nil, nil, err
	}
	return finder, budget, nil
}

// resolveCredentials fills missing OAuth values from the credential store.
// A nil manager means the default keychain, file and environment stores.
func resolveCredentials(cfg *config.Config, manager *auth.Manager) error {
	if cfg.HasCredentials() {
		return nil
	}
	if manager == nil {
		var err error
		if manager, err = auth.NewManager(); err != nil {
			return fmt.Errorf("failed to open credential store: %w", err)
		}
	}

	var account *auth.Account
	var err error
	if cfg.Tumblr.Account != "" {
		account, err = manager.Retrieve(cfg.Tumblr.Account)
	} else {
		account, err = manager.RetrieveDefault()
	}
	if err != nil {
		return fmt.Errorf("no Tumblr credentials found (run 'blogfinder auth login' or set %s and friends): %w", auth.EnvConsumerKey, err)
	}

	cfg.Tumblr.ConsumerKey = account.ConsumerKey
	cfg.Tumblr.ConsumerSecret = account.ConsumerSecret
	cfg.Tumblr.OAuthToken = account.OAuthToken
	cfg.Tumblr.OAuthSecret = account.OAuthSecret
	cfg.Tumblr.Account = account.Name
	return nil
}

// newRunLogger routes logs to the configured sink, or into the view when
// the terminal belongs to it.
func newRunLogger(cfg *config.Config, view *tui.TUI) (logger.Logger, error) {
	switch {
	case view != nil && cfg.Logging.File == "":
		return logger.NewWithWriter(cfg.Logging.Level, newViewLogSink(view.Log))
	case cfg.UI.Quiet && cfg.Logging.File == "":
		level := cfg.Logging.Level
		if level != "error" {
			level = "warn"
		}
		return logger.New(&config.LoggingConfig{Level: level, Format: cfg.Logging.Format})
	default:
		return logger.New(&cfg.Logging)
	}
}

// finishRun exports the records and maps the report onto an exit status
func finishRun(cfg *config.Config, report *search.Report, log logger.Logger, notifier *ui.Notifier) error {
	paths, err := export.Write(cfg.OutputBase(), report.Records)
	switch {
	case errors.Is(err, export.ErrNoRecords):
		log.Warn("No qualifying blogs found, nothing exported")
		notifier.SendWarning("blogfinder", "No qualifying blogs found")
	case err != nil:
		log.WithError(err).Error("Export failed")
		notifier.SendError("Export failed", err.Error())
		return &exitError{code: exitFailure, err: err}
	default:
		log.WithFields(map[string]interface{}{
			"json":    paths.JSON,
			"csv":     paths.CSV,
			"records": len(report.Records),
		}).Info("Results exported")
		if !cfg.UI.Quiet {
			ui.PrintInfo("JSON", paths.JSON)
			ui.PrintInfo("CSV", paths.CSV)
		}
		notifier.SendSuccess("blogfinder", fmt.Sprintf("%d qualifying blogs exported", len(report.Records)))
	}

	if report.Interrupted {
		return &exitError{code: exitInterrupted}
	}
	return nil
}

// summaryLines renders the report for the view's summary panel
func summaryLines(report *search.Report) []string {
	lines := make([]string, 0, len(report.Themes)+2)
	for _, t := range report.Themes {
		line := fmt.Sprintf("#%s: %d posts, %d new blogs, %d duplicates, %d qualified",
			t.Theme, t.Posts, t.NewBlogs, t.Duplicates, t.Qualified)
		if t.Err != "" {
			line += " (" + t.Err + ")"
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("%d unique blogs, %d profiled, %d failed, %d qualified in %s",
		report.UniqueSeen, report.Profiled, report.ProfileFailures, report.Qualified, ui.FormatDuration(report.Duration())))
	if report.Interrupted {
		lines = append(lines, "Stopped early: "+report.Reason)
	}
	return lines
}
