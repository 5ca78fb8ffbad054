// Package search finds blogs that post under a set of themes and keeps the
// ones whose profiles qualify.
//
// A Walker pages through one theme's tagged posts up to a ceiling, yielding
// the blog behind each post. The Finder offers every blog to a run-wide
// Registry so each one is profiled at most once, fetches its profile through
// a Fetcher and evaluates it with a filter.Qualifier:
//
//	finder, err := search.NewFinder(search.FinderConfig{
//	    Client:           tumblrClient,
//	    Qualifier:        qualifier,
//	    Pacer:            ratelimit.NewDefaultPacer(),
//	    Budget:           ratelimit.NewBudget(990, 4990, log),
//	    PageSize:         20,
//	    MaxPostsPerTheme: 500,
//	})
//	report, err := finder.Run(ctx, []string{"vintage", "zines"})
//
// Calls are strictly sequential. Cancellation is checked between API calls;
// a call already in flight is allowed to finish.
package search
