package tumblr

// SearchQuery asks for one page of posts carrying Tag. Offset counts posts
// already consumed; Before is the timestamp cursor Tumblr paginates with.
type SearchQuery struct {
	Tag    string
	Offset int
	Limit  int
	Before int64
}

// PostPage is one page of tagged-search results
type PostPage struct {
	Posts      []Post
	HasMore    bool
	NextBefore int64
}

// Meta is the status block of every API response
type Meta struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
}

type taggedResponse struct {
	Meta     Meta   `json:"meta"`
	Response []Post `json:"response"`
}

type blogInfoResponse struct {
	Meta     Meta `json:"meta"`
	Response struct {
		Blog *BlogInfo `json:"blog"`
	} `json:"response"`
}

// Post is the subset of a tagged post the search uses
type Post struct {
	ID        int64    `json:"id"`
	BlogName  string   `json:"blog_name"`
	Blog      *BlogRef `json:"blog,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Type      string   `json:"type"`
	Tags      []string `json:"tags"`
	Body      string   `json:"body"`
	Caption   string   `json:"caption"`
	Question  string   `json:"question"`
	Answer    string   `json:"answer"`
}

// BlogRef is the embedded blog object newer responses carry
type BlogRef struct {
	Name string `json:"name"`
}

// Author returns the normalized name of the post's blog, or "" when the
// post carries none.
func (p Post) Author() string {
	if name := NormalizeBlogName(p.BlogName); name != "" {
		return name
	}
	if p.Blog != nil {
		return NormalizeBlogName(p.Blog.Name)
	}
	return ""
}

// BlogInfo is a blog's public profile
type BlogInfo struct {
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Posts          int      `json:"posts"`
	Updated        int64    `json:"updated"`
	Followers      int      `json:"followers"`
	TotalFollowers int      `json:"total_followers"`
	Tags           []string `json:"tags"`
}

// FollowerCount prefers total_followers, which some responses carry in
// place of followers.
func (b BlogInfo) FollowerCount() int {
	if b.TotalFollowers > 0 {
		return b.TotalFollowers
	}
	return b.Followers
}
