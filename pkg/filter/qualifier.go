package filter

import (
	"math"
	"time"

	"blogfinder/pkg/models"
)

// Location sources in priority order
const (
	SourceURL         = "url"
	SourceTitle       = "title"
	SourceDescription = "description"
	SourceTags        = "tags"
)

// Check names a qualification predicate
type Check string

const (
	CheckLocation  Check = "location"
	CheckFollowers Check = "followers"
	CheckActivity  Check = "activity"
)

// Criteria are the numeric thresholds a blog must meet
type Criteria struct {
	MinFollowers    int
	MaxDaysInactive int
}

// Verdict is the outcome of evaluating one profile. Failed names the first
// check that failed when Pass is false.
type Verdict struct {
	Pass   bool
	Match  Match
	Failed Check
}

// Qualifier decides whether a blog profile qualifies
type Qualifier struct {
	gazetteer *Gazetteer
	criteria  Criteria
	now       func() time.Time
}

// NewQualifier creates a qualifier using g for location matching
func NewQualifier(g *Gazetteer, c Criteria) *Qualifier {
	return &Qualifier{gazetteer: g, criteria: c, now: time.Now}
}

// SetClock replaces the time source used for the activity check
func (q *Qualifier) SetClock(now func() time.Time) {
	q.now = now
}

// Gazetteer returns the gazetteer used for location matching
func (q *Qualifier) Gazetteer() *Gazetteer {
	return q.gazetteer
}

// Evaluate applies the location, follower and activity checks in that order
func (q *Qualifier) Evaluate(p models.BlogProfile) Verdict {
	return q.EvaluateWithMention(p, nil)
}

// EvaluateWithMention is Evaluate, except that when no profile field names a
// location, mention (found in the post that surfaced the blog) is used.
func (q *Qualifier) EvaluateWithMention(p models.BlogProfile, mention *Match) Verdict {
	match, ok := q.LocationMatch(p)
	if !ok && mention != nil {
		match, ok = *mention, true
	}
	if !ok {
		return Verdict{Failed: CheckLocation}
	}
	if p.Followers <= q.criteria.MinFollowers {
		return Verdict{Match: match, Failed: CheckFollowers}
	}
	days, ok := q.DaysSinceLastPost(p)
	if !ok || days > q.criteria.MaxDaysInactive {
		return Verdict{Match: match, Failed: CheckActivity}
	}
	return Verdict{Pass: true, Match: match}
}

// LocationMatch scans URL, title, description and tags in that order and
// returns the first gazetteer hit. Each tag is matched on its own, so a term
// never spans two tags.
func (q *Qualifier) LocationMatch(p models.BlogProfile) (Match, bool) {
	fields := []struct {
		source string
		text   string
	}{
		{SourceURL, p.URL},
		{SourceTitle, p.Title},
		{SourceDescription, htmlText(p.Description)},
	}
	for _, f := range fields {
		if term, ok := q.gazetteer.Find(f.text); ok {
			return Match{Term: term, Source: f.source}, true
		}
	}
	if term, ok := q.gazetteer.FindAny(p.Tags); ok {
		return Match{Term: term, Source: SourceTags}, true
	}
	return Match{}, false
}

// DaysSinceLastPost returns whole days since the last post. It reports false
// when the profile has no timestamp.
func (q *Qualifier) DaysSinceLastPost(p models.BlogProfile) (int, bool) {
	if p.LastPost.IsZero() {
		return 0, false
	}
	elapsed := q.now().Sub(p.LastPost)
	return int(math.Floor(elapsed.Hours() / 24)), true
}
