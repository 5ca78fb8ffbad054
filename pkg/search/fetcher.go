package search

import (
	"context"
	"time"

	"blogfinder/pkg/models"
	"blogfinder/pkg/ratelimit"
	"blogfinder/pkg/tumblr"
)

// ProfileResult is either a profile or the error that prevented fetching it
type ProfileResult struct {
	Profile models.BlogProfile
	Err     error
}

// Ok reports whether the fetch succeeded
func (r ProfileResult) Ok() bool {
	return r.Err == nil
}

// Fetcher retrieves blog profiles under the profile pacing and call budget
type Fetcher struct {
	client Client
	pacer  ratelimit.Limiter
	budget *ratelimit.Budget
}

// NewFetcher creates a profile fetcher
func NewFetcher(client Client, pacer ratelimit.Limiter, budget *ratelimit.Budget) *Fetcher {
	return &Fetcher{client: client, pacer: pacer, budget: budget}
}

// Fetch waits for the budget and pacer, then fetches the profile of id.
// Failures are returned in the result rather than aborting the run.
func (f *Fetcher) Fetch(ctx context.Context, id string) ProfileResult {
	if err := f.budget.Acquire(ctx); err != nil {
		return ProfileResult{Err: err}
	}
	if err := f.pacer.Wait(ctx, ratelimit.KindProfile); err != nil {
		return ProfileResult{Err: err}
	}

	info, err := f.client.GetBlogInfo(context.WithoutCancel(ctx), id)
	if err != nil {
		return ProfileResult{Err: err}
	}
	return ProfileResult{Profile: toProfile(id, info)}
}

func toProfile(id string, info tumblr.BlogInfo) models.BlogProfile {
	p := models.BlogProfile{
		Name:        tumblr.NormalizeBlogName(info.Name),
		URL:         info.URL,
		Title:       info.Title,
		Description: info.Description,
		Followers:   info.FollowerCount(),
		TotalPosts:  info.Posts,
		Tags:        info.Tags,
	}
	if p.Name == "" {
		p.Name = id
	}
	if info.Updated > 0 {
		p.LastPost = time.Unix(info.Updated, 0).UTC()
	}
	return p
}
