package search

import (
	"context"

	"blogfinder/pkg/tumblr"
)

// Client defines the Tumblr API operations the search needs
type Client interface {
	SearchTag(ctx context.Context, q tumblr.SearchQuery) (tumblr.PostPage, error)
	GetBlogInfo(ctx context.Context, name string) (tumblr.BlogInfo, error)
}

// Reporter receives progress events. Implementations must not block.
type Reporter interface {
	// SearchProgress is called after each page of a theme walk
	SearchProgress(theme string, posts, unique int)
	// ProfileProgress is called after each profiled blog
	ProfileProgress(processed, total, qualified int)
}

// NopReporter discards progress events
type NopReporter struct{}

func (NopReporter) SearchProgress(string, int, int) {}
func (NopReporter) ProfileProgress(int, int, int)   {}

// MultiReporter fans progress out to several reporters
type MultiReporter []Reporter

func (m MultiReporter) SearchProgress(theme string, posts, unique int) {
	for _, r := range m {
		r.SearchProgress(theme, posts, unique)
	}
}

func (m MultiReporter) ProfileProgress(processed, total, qualified int) {
	for _, r := range m {
		r.ProfileProgress(processed, total, qualified)
	}
}
