package search

import (
	"context"
	"errors"
	"testing"

	"blogfinder/pkg/filter"
	"blogfinder/pkg/tumblr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, w *Walker) []Sighting {
	t.Helper()
	var out []Sighting
	for {
		s, ok := w.Next(context.Background())
		if !ok {
			return out
		}
		out = append(out, s)
	}
}

func ids(sightings []Sighting) []string {
	out := make([]string, len(sightings))
	for i, s := range sightings {
		out[i] = s.ID
	}
	return out
}

func TestWalkerStopsOnEmptyPage(t *testing.T) {
	client := newFakeClient()
	client.pages["test"] = [][]tumblr.Post{posts("A", "B"), posts("B", "C"), {}}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 2, MaxPosts: 100}, "test")
	got := collect(t, w)

	assert.Equal(t, []string{"a", "b", "b", "c"}, ids(got))
	assert.NoError(t, w.Err())
	assert.Equal(t, WalkStats{Pages: 2, Posts: 4, Unique: 3}, w.Stats())
	assert.Len(t, client.tagQueries("test"), 3)
}

func TestWalkerRespectsCeiling(t *testing.T) {
	client := newFakeClient()
	client.pages["deep"] = [][]tumblr.Post{
		numberedPosts("p", 2), numberedPosts("q", 2), numberedPosts("r", 2), numberedPosts("s", 2),
	}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 2, MaxPosts: 5}, "deep")
	got := collect(t, w)

	require.Len(t, got, 5)
	queries := client.tagQueries("deep")
	require.Len(t, queries, 3)
	assert.Equal(t, []int{2, 2, 1}, []int{queries[0].Limit, queries[1].Limit, queries[2].Limit})
	assert.Equal(t, []int{0, 2, 4}, []int{queries[0].Offset, queries[1].Offset, queries[2].Offset})
	assert.Equal(t, int64(0), queries[0].Before)
	assert.Equal(t, int64(1000), queries[1].Before)
	assert.Equal(t, 5, w.Stats().Posts)
}

func TestWalkerTruncatesOversizedPage(t *testing.T) {
	client := newFakeClient()
	client.pages["x"] = [][]tumblr.Post{numberedPosts("a", 20)}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 20, MaxPosts: 3}, "x")
	assert.Len(t, collect(t, w), 3)
	assert.Equal(t, 3, w.Stats().Posts)
}

func TestWalkerStopsWhenNoMore(t *testing.T) {
	client := &singlePageClient{fakeClient: newFakeClient(), page: tumblr.PostPage{Posts: posts("a"), HasMore: false}}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 20, MaxPosts: 100}, "x")
	assert.Len(t, collect(t, w), 1)
	assert.Equal(t, 1, client.calls)
}

func TestWalkerSkipsMalformedPosts(t *testing.T) {
	client := newFakeClient()
	client.pages["x"] = [][]tumblr.Post{{
		{BlogName: "good"},
		{BlogName: "  "},
		{Blog: &tumblr.BlogRef{Name: "Nested"}},
		{},
	}}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 20, MaxPosts: 100}, "x")
	assert.Equal(t, []string{"good", "nested"}, ids(collect(t, w)))
	assert.Equal(t, 2, w.Stats().Malformed)
	assert.Equal(t, 4, w.Stats().Posts)
}

func TestWalkerSearchErrorEndsTheme(t *testing.T) {
	client := newFakeClient()
	client.searchErr["x"] = errors.New("connection reset")

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 20, MaxPosts: 100}, "x")
	assert.Empty(t, collect(t, w))
	require.Error(t, w.Err())
	assert.Contains(t, w.Err().Error(), "connection reset")
}

func TestWalkerCancelled(t *testing.T) {
	client := newFakeClient()
	client.pages["x"] = [][]tumblr.Post{posts("a")}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), PageSize: 20, MaxPosts: 100}, "x")
	_, ok := w.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, w.Err(), context.Canceled)
	assert.Empty(t, client.tagQueries("x"))
}

func TestWalkerReportsProgress(t *testing.T) {
	client := newFakeClient()
	client.pages["x"] = [][]tumblr.Post{posts("a", "b"), posts("b", "c")}
	rec := &recordingReporter{}

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), Reporter: rec, PageSize: 2, MaxPosts: 100}, "x")
	collect(t, w)

	assert.Equal(t, []searchEvent{{"x", 2, 2}, {"x", 4, 3}}, rec.searches)
}

func TestWalkerScansMentions(t *testing.T) {
	client := newFakeClient()
	client.pages["x"] = [][]tumblr.Post{{
		{BlogName: "a", Caption: "<p>sunset over <b>Oakland</b></p>"},
		{BlogName: "b", Body: "<p>nothing</p>"},
	}}
	g := filter.NewGazetteer(filter.DefaultLocations, true)

	w := NewWalker(WalkerConfig{Client: client, Pacer: instantPacer(), Gazetteer: g, PageSize: 20, MaxPosts: 100}, "x")
	got := collect(t, w)

	require.Len(t, got, 2)
	require.NotNil(t, got[0].Mention)
	assert.Equal(t, filter.Match{Term: "oakland", Source: "post_caption"}, *got[0].Mention)
	assert.Nil(t, got[1].Mention)
}

type singlePageClient struct {
	*fakeClient
	page  tumblr.PostPage
	calls int
}

func (c *singlePageClient) SearchTag(ctx context.Context, q tumblr.SearchQuery) (tumblr.PostPage, error) {
	c.calls++
	return c.page, nil
}

type searchEvent struct {
	theme         string
	posts, unique int
}

type profileEvent struct {
	processed, total, qualified int
}

type recordingReporter struct {
	searches []searchEvent
	profiles []profileEvent
	onProfile func(processed int)
}

func (r *recordingReporter) SearchProgress(theme string, posts, unique int) {
	r.searches = append(r.searches, searchEvent{theme, posts, unique})
}

func (r *recordingReporter) ProfileProgress(processed, total, qualified int) {
	r.profiles = append(r.profiles, profileEvent{processed, total, qualified})
	if r.onProfile != nil {
		r.onProfile(processed)
	}
}
