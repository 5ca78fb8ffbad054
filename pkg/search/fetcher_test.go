package search

import (
	"context"
	"testing"
	"time"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/tumblr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMapsProfile(t *testing.T) {
	client := newFakeClient()
	client.profiles["someblog"] = tumblr.BlogInfo{
		Name:           "SomeBlog",
		URL:            "https://someblog.tumblr.com/",
		Title:          "t",
		Description:    "d",
		Posts:          12,
		Updated:        1700000000,
		TotalFollowers: 30,
		Tags:           []string{"x"},
	}

	res := NewFetcher(client, instantPacer(), nil).Fetch(context.Background(), "someblog")
	require.True(t, res.Ok())
	p := res.Profile
	assert.Equal(t, "someblog", p.Name)
	assert.Equal(t, 30, p.Followers)
	assert.Equal(t, 12, p.TotalPosts)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), p.LastPost)
	assert.Equal(t, []string{"x"}, p.Tags)
}

func TestFetchDefaultsMissingFields(t *testing.T) {
	client := newFakeClient()
	client.profiles["bare"] = tumblr.BlogInfo{}

	res := NewFetcher(client, instantPacer(), nil).Fetch(context.Background(), "bare")
	require.True(t, res.Ok())
	assert.Equal(t, "bare", res.Profile.Name)
	assert.True(t, res.Profile.LastPost.IsZero())
	assert.Zero(t, res.Profile.Followers)
}

func TestFetchReturnsErrors(t *testing.T) {
	client := newFakeClient()

	res := NewFetcher(client, instantPacer(), nil).Fetch(context.Background(), "ghost")
	assert.False(t, res.Ok())
	assert.Equal(t, errs.ErrorTypeNotFound, errs.TypeOf(res.Err))
}

func TestFetchCancelledBeforeCall(t *testing.T) {
	client := newFakeClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewFetcher(client, instantPacer(), nil).Fetch(ctx, "a")
	assert.ErrorIs(t, res.Err, context.Canceled)
	assert.Zero(t, client.profileHits["a"])
}
