package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/ratelimit"
	"blogfinder/pkg/tumblr"
)

// fakeClient serves scripted pages per tag and profiles per blog
type fakeClient struct {
	mu          sync.Mutex
	pages       map[string][][]tumblr.Post
	searchErr   map[string]error
	profiles    map[string]tumblr.BlogInfo
	profileErr  map[string]error
	queries     []tumblr.SearchQuery
	profileHits map[string]int
	onProfile   func(name string)
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		pages:       map[string][][]tumblr.Post{},
		searchErr:   map[string]error{},
		profiles:    map[string]tumblr.BlogInfo{},
		profileErr:  map[string]error{},
		profileHits: map[string]int{},
	}
}

func (f *fakeClient) SearchTag(ctx context.Context, q tumblr.SearchQuery) (tumblr.PostPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	calls := 0
	for _, prev := range f.queries {
		if prev.Tag == q.Tag {
			calls++
		}
	}
	f.queries = append(f.queries, q)

	if err := f.searchErr[q.Tag]; err != nil {
		return tumblr.PostPage{}, err
	}
	pages := f.pages[q.Tag]
	if calls >= len(pages) {
		return tumblr.PostPage{}, nil
	}
	posts := pages[calls]
	return tumblr.PostPage{
		Posts:      posts,
		HasMore:    len(posts) > 0,
		NextBefore: int64(1000 - calls),
	}, nil
}

func (f *fakeClient) GetBlogInfo(ctx context.Context, name string) (tumblr.BlogInfo, error) {
	f.mu.Lock()
	f.profileHits[name]++
	hook := f.onProfile
	f.mu.Unlock()

	if hook != nil {
		hook(name)
	}
	if err := f.profileErr[name]; err != nil {
		return tumblr.BlogInfo{}, err
	}
	info, ok := f.profiles[name]
	if !ok {
		return tumblr.BlogInfo{}, &errs.Error{Type: errs.ErrorTypeNotFound, Message: "Not Found", Code: 404}
	}
	return info, nil
}

func (f *fakeClient) tagQueries(tag string) []tumblr.SearchQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tumblr.SearchQuery
	for _, q := range f.queries {
		if q.Tag == tag {
			out = append(out, q)
		}
	}
	return out
}

func posts(names ...string) []tumblr.Post {
	out := make([]tumblr.Post, len(names))
	for i, n := range names {
		out[i] = tumblr.Post{BlogName: n, Timestamp: int64(1000 - i)}
	}
	return out
}

// numberedPosts returns n posts from distinct blogs prefixed with prefix
func numberedPosts(prefix string, n int) []tumblr.Post {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return posts(names...)
}

func qualifyingInfo(name string, followers int) tumblr.BlogInfo {
	return tumblr.BlogInfo{
		Name:      name,
		URL:       "https://" + name + ".tumblr.com/",
		Title:     "Oakland finds",
		Followers: followers,
		Posts:     40,
		Updated:   time.Now().Add(-48 * time.Hour).Unix(),
	}
}

func instantPacer() *ratelimit.Pacer {
	return ratelimit.NewPacer(map[ratelimit.Kind]time.Duration{
		ratelimit.KindSearch:  0,
		ratelimit.KindProfile: 0,
	})
}
