package models

import "time"

// BlogProfile is the public profile of a blog as the filter sees it.
// A zero LastPost means the API gave no usable timestamp.
type BlogProfile struct {
	Name        string
	URL         string
	Title       string
	Description string
	Followers   int
	TotalPosts  int
	LastPost    time.Time
	Tags        []string
}

// QualifyingRecord is a blog that passed every qualification check
type QualifyingRecord struct {
	Profile        BlogProfile
	LocationTerm   string
	LocationSource string
	Theme          string
}

// LastPostDate formats LastPost as YYYY-MM-DD, or "" when unknown
func (r QualifyingRecord) LastPostDate() string {
	if r.Profile.LastPost.IsZero() {
		return ""
	}
	return r.Profile.LastPost.UTC().Format("2006-01-02")
}
