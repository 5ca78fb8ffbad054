package search

import (
	"context"
	"errors"
	"time"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/filter"
	"blogfinder/pkg/logger"
	"blogfinder/pkg/models"
	"blogfinder/pkg/ratelimit"
	"blogfinder/pkg/tumblr"

	"github.com/google/uuid"
)

// Run end reasons
const (
	ReasonCompleted       = "completed"
	ReasonCancelled       = "cancelled"
	ReasonBudgetExhausted = "daily budget exhausted"
)

const progressLogEvery = 10

// ThemeStats summarizes the search of one theme
type ThemeStats struct {
	Theme      string
	Posts      int
	Unique     int
	NewBlogs   int
	Duplicates int
	Malformed  int
	Qualified  int
	Err        string
}

// Report is the outcome of a run
type Report struct {
	RunID           string
	Records         []models.QualifyingRecord
	Themes          []ThemeStats
	UniqueSeen      int
	Profiled        int
	ProfileFailures int
	Qualified       int
	Interrupted     bool
	Reason          string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Duration returns how long the run took
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// FinderConfig holds the collaborators and settings of a Finder
type FinderConfig struct {
	Client           Client
	Qualifier        *filter.Qualifier
	Pacer            ratelimit.Limiter
	Budget           *ratelimit.Budget
	Reporter         Reporter
	Logger           logger.Logger
	PageSize         int
	MaxPostsPerTheme int
	// UsePostMentions lets a location named in the surfacing post stand in
	// for a location in the blog's profile.
	UsePostMentions bool
}

// Finder searches themes for blogs, profiles each distinct blog once and
// keeps the ones that qualify.
type Finder struct {
	cfg     FinderConfig
	fetcher *Fetcher
	logger  logger.Logger
}

// NewFinder validates cfg and creates a Finder
func NewFinder(cfg FinderConfig) (*Finder, error) {
	if cfg.Client == nil {
		return nil, errs.Config("search client is required")
	}
	if cfg.Qualifier == nil {
		return nil, errs.Config("qualifier is required")
	}
	if cfg.MaxPostsPerTheme <= 0 {
		return nil, errs.Config("max posts per theme must be positive, got %d", cfg.MaxPostsPerTheme)
	}
	if cfg.PageSize < 1 || cfg.PageSize > tumblr.MaxPageSize {
		return nil, errs.Config("page size must be between 1 and %d, got %d", tumblr.MaxPageSize, cfg.PageSize)
	}
	if cfg.Pacer == nil {
		cfg.Pacer = ratelimit.NewDefaultPacer()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = NopReporter{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	return &Finder{
		cfg:     cfg,
		fetcher: NewFetcher(cfg.Client, cfg.Pacer, cfg.Budget),
		logger:  cfg.Logger.WithField("component", "finder"),
	}, nil
}

// SetReporter replaces the progress reporter; nil discards progress.
// It must not be called while Run is in progress.
func (f *Finder) SetReporter(r Reporter) {
	if r == nil {
		r = NopReporter{}
	}
	f.cfg.Reporter = r
}

// Run searches themes in order. Each blog is profiled at most once and is
// attributed to the first theme that surfaced it. Cancelling ctx, or running
// out of daily budget, ends the run early with Interrupted set; the records
// gathered so far are still returned. Only configuration problems produce an
// error.
func (f *Finder) Run(ctx context.Context, themes []string) (*Report, error) {
	if len(themes) == 0 {
		return nil, errs.Config("at least one theme is required")
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Records:   []models.QualifyingRecord{},
		Reason:    ReasonCompleted,
		StartedAt: time.Now(),
	}
	log := f.logger.WithField("run_id", report.RunID)
	log.InfoWithFields("Starting blog search", map[string]interface{}{
		"themes":    themes,
		"max_posts": f.cfg.MaxPostsPerTheme,
		"page_size": f.cfg.PageSize,
	})

	registry := NewRegistry()
	defer func() {
		report.UniqueSeen = registry.Len()
		report.FinishedAt = time.Now()
		logger.LogRunSummary(log, map[string]interface{}{
			"unique":      report.UniqueSeen,
			"profiled":    report.Profiled,
			"failures":    report.ProfileFailures,
			"qualified":   report.Qualified,
			"interrupted": report.Interrupted,
			"reason":      report.Reason,
			"duration":    report.Duration(),
		})
	}()

	for _, theme := range themes {
		if err := ctx.Err(); err != nil {
			f.interrupt(report, err)
			break
		}

		stats, stopErr := f.searchTheme(ctx, theme, registry, report, log)
		report.Themes = append(report.Themes, stats)
		if stopErr != nil {
			f.interrupt(report, stopErr)
			break
		}
	}

	return report, nil
}

// searchTheme walks one theme. A non-nil error means the whole run must stop.
func (f *Finder) searchTheme(ctx context.Context, theme string, registry *Registry, report *Report, log logger.Logger) (ThemeStats, error) {
	log = log.WithField("theme", theme)
	log.Info("Searching theme")

	var gazetteer *filter.Gazetteer
	if f.cfg.UsePostMentions {
		gazetteer = f.cfg.Qualifier.Gazetteer()
	}
	walker := NewWalker(WalkerConfig{
		Client:    f.cfg.Client,
		Pacer:     f.cfg.Pacer,
		Budget:    f.cfg.Budget,
		Gazetteer: gazetteer,
		Reporter:  f.cfg.Reporter,
		Logger:    f.cfg.Logger,
		PageSize:  f.cfg.PageSize,
		MaxPosts:  f.cfg.MaxPostsPerTheme,
	}, theme)

	stats := ThemeStats{Theme: theme}
	finish := func() {
		ws := walker.Stats()
		stats.Posts = ws.Posts
		stats.Unique = ws.Unique
		stats.Malformed = ws.Malformed
	}

	for {
		s, ok := walker.Next(ctx)
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			finish()
			return stats, err
		}
		if !registry.Offer(s.ID) {
			stats.Duplicates++
			continue
		}
		stats.NewBlogs++

		res := f.fetcher.Fetch(ctx, s.ID)
		if res.Err != nil {
			if isInterruption(res.Err) {
				finish()
				return stats, res.Err
			}
			report.ProfileFailures++
			logger.LogProfileFailure(log, s.ID, res.Err)
			continue
		}
		report.Profiled++

		verdict := f.cfg.Qualifier.EvaluateWithMention(res.Profile, s.Mention)
		if verdict.Pass {
			report.Records = append(report.Records, models.QualifyingRecord{
				Profile:        res.Profile,
				LocationTerm:   verdict.Match.Term,
				LocationSource: verdict.Match.Source,
				Theme:          s.Theme,
			})
			report.Qualified++
			stats.Qualified++
			log.InfoWithFields("Blog qualified", map[string]interface{}{
				"blog":      s.ID,
				"term":      verdict.Match.Term,
				"source":    verdict.Match.Source,
				"followers": res.Profile.Followers,
			})
		} else {
			log.DebugWithFields("Blog rejected", map[string]interface{}{
				"blog":   s.ID,
				"failed": string(verdict.Failed),
			})
		}

		f.cfg.Reporter.ProfileProgress(report.Profiled, registry.Len(), report.Qualified)
		if report.Profiled%progressLogEvery == 0 {
			logger.LogProfileProgress(log, report.Profiled, registry.Len(), report.Qualified)
		}
	}
	finish()

	if err := walker.Err(); err != nil {
		if isInterruption(err) {
			return stats, err
		}
		stats.Err = err.Error()
	}
	log.InfoWithFields("Theme finished", map[string]interface{}{
		"posts":     stats.Posts,
		"new_blogs": stats.NewBlogs,
		"qualified": stats.Qualified,
	})
	return stats, nil
}

func (f *Finder) interrupt(report *Report, err error) {
	report.Interrupted = true
	report.Reason = ReasonCancelled
	if errors.Is(err, ratelimit.ErrDailyBudgetExhausted) {
		report.Reason = ReasonBudgetExhausted
	}
	f.logger.WithField("reason", report.Reason).Warn("Search interrupted, keeping results gathered so far")
}

// isInterruption reports whether err means the run should stop, as opposed
// to a single failed API call.
func isInterruption(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ratelimit.ErrDailyBudgetExhausted)
}
