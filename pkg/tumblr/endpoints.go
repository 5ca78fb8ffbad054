package tumblr

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// BaseURL is the Tumblr API host
	BaseURL = "https://api.tumblr.com"

	// TaggedEndpoint lists recent posts carrying a tag
	TaggedEndpoint = "/v2/tagged"

	// BlogInfoEndpoint is the pattern for a blog's public profile
	BlogInfoEndpoint = "/v2/blog/%s/info"

	// MaxPageSize is the largest limit the tagged endpoint honors
	MaxPageSize = 20

	// OAuth endpoints for the three-legged login flow
	RequestTokenURL = "https://www.tumblr.com/oauth/request_token"
	AuthorizeURL    = "https://www.tumblr.com/oauth/authorize"
	AccessTokenURL  = "https://www.tumblr.com/oauth/access_token"
)

// TaggedURL builds the tagged-search URL for a query
func TaggedURL(base string, q SearchQuery) string {
	params := url.Values{}
	params.Set("tag", q.Tag)
	params.Set("limit", strconv.Itoa(clampLimit(q.Limit)))
	if q.Before > 0 {
		params.Set("before", strconv.FormatInt(q.Before, 10))
	}
	return fmt.Sprintf("%s%s?%s", base, TaggedEndpoint, params.Encode())
}

// BlogInfoURL builds the blog info URL for a blog name
func BlogInfoURL(base, name string) string {
	return base + fmt.Sprintf(BlogInfoEndpoint, url.PathEscape(BlogIdentifier(name)))
}

// BlogIdentifier turns a bare blog name into the hostname form the API
// accepts; names that already contain a dot are used as-is.
func BlogIdentifier(name string) string {
	name = NormalizeBlogName(name)
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".tumblr.com"
}

// NormalizeBlogName trims and lower-cases a blog name
func NormalizeBlogName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
