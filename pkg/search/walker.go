package search

import (
	"context"
	"fmt"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/filter"
	"blogfinder/pkg/logger"
	"blogfinder/pkg/ratelimit"
	"blogfinder/pkg/tumblr"
)

// Sighting is a blog surfaced by a post under a theme. Mention is set when
// the post itself names a location.
type Sighting struct {
	ID      string
	Theme   string
	Mention *filter.Match
}

// WalkStats summarizes one theme walk
type WalkStats struct {
	Pages     int
	Posts     int
	Unique    int
	Malformed int
}

// Walker lazily pages through the posts of one theme, up to a ceiling
type Walker struct {
	client    Client
	pacer     ratelimit.Limiter
	budget    *ratelimit.Budget
	gazetteer *filter.Gazetteer
	reporter  Reporter
	logger    logger.Logger

	theme    string
	pageSize int
	maxPosts int

	offset  int
	before  int64
	buffer  []Sighting
	done    bool
	err     error
	stats   WalkStats
	inTheme map[string]struct{}
}

// WalkerConfig holds the collaborators and bounds of a walk. Gazetteer is
// optional; when set every post is scanned for location mentions.
type WalkerConfig struct {
	Client    Client
	Pacer     ratelimit.Limiter
	Budget    *ratelimit.Budget
	Gazetteer *filter.Gazetteer
	Reporter  Reporter
	Logger    logger.Logger
	PageSize  int
	MaxPosts  int
}

// NewWalker creates a walker for theme
func NewWalker(cfg WalkerConfig, theme string) *Walker {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > tumblr.MaxPageSize {
		pageSize = tumblr.MaxPageSize
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}
	pacer := cfg.Pacer
	if pacer == nil {
		pacer = ratelimit.NewDefaultPacer()
	}
	return &Walker{
		client:    cfg.Client,
		pacer:     pacer,
		budget:    cfg.Budget,
		gazetteer: cfg.Gazetteer,
		reporter:  reporter,
		logger:    log.WithField("theme", theme),
		theme:     theme,
		pageSize:  pageSize,
		maxPosts:  cfg.MaxPosts,
		inTheme:   make(map[string]struct{}),
	}
}

// Next returns the next sighting, fetching a page when the buffer is empty.
// It returns false once the walk has ended; Err then explains why, or is nil
// for a normal end.
func (w *Walker) Next(ctx context.Context) (Sighting, bool) {
	for len(w.buffer) == 0 {
		if w.done {
			return Sighting{}, false
		}
		w.fetchPage(ctx)
	}
	s := w.buffer[0]
	w.buffer = w.buffer[1:]
	return s, true
}

// Err returns the error that ended the walk early, if any
func (w *Walker) Err() error {
	return w.err
}

// Stats returns counters for the walk so far
func (w *Walker) Stats() WalkStats {
	return w.stats
}

func (w *Walker) fetchPage(ctx context.Context) {
	remaining := w.maxPosts - w.offset
	if remaining <= 0 {
		w.done = true
		return
	}

	if err := ctx.Err(); err != nil {
		w.stop(err)
		return
	}
	if err := w.budget.Acquire(ctx); err != nil {
		w.stop(err)
		return
	}
	if err := w.pacer.Wait(ctx, ratelimit.KindSearch); err != nil {
		w.stop(err)
		return
	}

	q := tumblr.SearchQuery{
		Tag:    w.theme,
		Offset: w.offset,
		Limit:  min(w.pageSize, remaining),
		Before: w.before,
	}
	// an in-flight call always completes; cancellation is seen at the next boundary
	page, err := w.client.SearchTag(context.WithoutCancel(ctx), q)
	if err != nil {
		w.logger.WithError(err).WithField("offset", w.offset).Warn("Tag search failed, ending theme")
		w.stop(fmt.Errorf("search %q at offset %d: %w", w.theme, w.offset, err))
		return
	}
	if len(page.Posts) == 0 {
		w.done = true
		return
	}

	posts := page.Posts
	if len(posts) > remaining {
		posts = posts[:remaining]
	}
	w.stats.Pages++
	w.offset += len(posts)
	w.stats.Posts = w.offset
	w.before = page.NextBefore

	for _, p := range posts {
		s, err := w.sighting(p)
		if err != nil {
			w.stats.Malformed++
			continue
		}
		if _, ok := w.inTheme[s.ID]; !ok {
			w.inTheme[s.ID] = struct{}{}
			w.stats.Unique++
		}
		w.buffer = append(w.buffer, s)
	}

	logger.LogSearchPage(w.logger, w.theme, w.stats.Posts, w.stats.Unique)
	w.reporter.SearchProgress(w.theme, w.stats.Posts, w.stats.Unique)

	if !page.HasMore {
		w.done = true
	}
}

func (w *Walker) sighting(p tumblr.Post) (Sighting, error) {
	id := p.Author()
	if id == "" {
		return Sighting{}, errs.ErrMalformedPost
	}
	s := Sighting{ID: id, Theme: w.theme}
	if w.gazetteer != nil {
		if m, ok := w.gazetteer.FindInPost(
			filter.PostField{Name: "body", HTML: p.Body},
			filter.PostField{Name: "caption", HTML: p.Caption},
			filter.PostField{Name: "question", HTML: p.Question},
			filter.PostField{Name: "answer", HTML: p.Answer},
		); ok {
			s.Mention = &m
		}
	}
	return s, nil
}

func (w *Walker) stop(err error) {
	w.err = err
	w.done = true
}
