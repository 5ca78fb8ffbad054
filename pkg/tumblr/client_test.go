package tumblr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithHTTP(server.Client(), server.URL, logger.NewNopLogger()), server
}

func TestSearchTag(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, TaggedEndpoint, r.URL.Path)
		assert.Equal(t, "vintage", r.URL.Query().Get("tag"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"meta":{"status":200,"msg":"OK"},"response":[
			{"id":1,"blog_name":"Alpha ","timestamp":1700000300,"body":"<p>hi</p>"},
			{"id":2,"blog":{"name":"beta"},"timestamp":1700000100}
		]}`))
	})

	page, err := client.SearchTag(context.Background(), SearchQuery{Tag: "vintage", Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "alpha", page.Posts[0].Author())
	assert.Equal(t, "beta", page.Posts[1].Author())
	assert.Equal(t, int64(1700000100), page.NextBefore)
	assert.True(t, page.HasMore)
}

func TestSearchTagPassesCursor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1700000100", r.URL.Query().Get("before"))
		w.Write([]byte(`{"meta":{"status":200},"response":[]}`))
	})

	page, err := client.SearchTag(context.Background(), SearchQuery{Tag: "x", Limit: 20, Before: 1700000100})
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.False(t, page.HasMore)
}

func TestSearchTagStalledCursor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"status":200},"response":[{"blog_name":"a","timestamp":500}]}`))
	})

	page, err := client.SearchTag(context.Background(), SearchQuery{Tag: "x", Limit: 20, Before: 500})
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)
	assert.False(t, page.HasMore, "a cursor that does not move back must end the walk")
}

func TestGetBlogInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/blog/someblog.tumblr.com/info", r.URL.Path)
		w.Write([]byte(`{"meta":{"status":200},"response":{"blog":{
			"name":"someblog","url":"https://someblog.tumblr.com/","title":"Bay Area Finds",
			"description":"thrift","posts":120,"updated":1700000000,"total_followers":42
		}}}`))
	})

	info, err := client.GetBlogInfo(context.Background(), " SomeBlog ")
	require.NoError(t, err)
	assert.Equal(t, "someblog", info.Name)
	assert.Equal(t, "Bay Area Finds", info.Title)
	assert.Equal(t, 120, info.Posts)
	assert.Equal(t, 42, info.FollowerCount())
	assert.Equal(t, int64(1700000000), info.Updated)
}

func TestGetBlogInfoMissingBlog(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta":{"status":200},"response":{}}`))
	})

	_, err := client.GetBlogInfo(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeParsing, errs.TypeOf(err))
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType errs.ErrorType
		wantMsg  string
	}{
		{"not found", 404, `{"meta":{"status":404,"msg":"Not Found"}}`, errs.ErrorTypeNotFound, "Not Found"},
		{"unauthorized", 401, `{"meta":{"status":401,"msg":"Unauthorized"}}`, errs.ErrorTypeAuth, "Unauthorized"},
		{"rate limited", 429, `slow down`, errs.ErrorTypeRateLimit, "Too Many Requests"},
		{"server", 503, ``, errs.ErrorTypeServerError, "Service Unavailable"},
		{"bad json", 200, `{"meta":`, errs.ErrorTypeParsing, "parse JSON"},
		{"meta error", 200, `{"meta":{"status":403,"msg":"Forbidden"},"response":[]}`, errs.ErrorTypeAuth, "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.SearchTag(context.Background(), SearchQuery{Tag: "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantType, errs.TypeOf(err))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestNetworkError(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.GetBlogInfo(context.Background(), "a")
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNetwork, errs.TypeOf(err))
}

func TestNewClientSignsRequests(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{"meta":{"status":200},"response":[]}`))
	}))
	defer server.Close()

	client := NewClient(Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", Token: "t", TokenSecret: "ts"}, 5*time.Second, logger.NewNopLogger())
	client.SetBaseURL(server.URL)

	_, err := client.SearchTag(context.Background(), SearchQuery{Tag: "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(auth, "OAuth "), "got %q", auth)
	assert.Contains(t, auth, `oauth_consumer_key="ck"`)
	assert.Contains(t, auth, `oauth_token="t"`)
}

func TestCredentialsComplete(t *testing.T) {
	assert.True(t, Credentials{"a", "b", "c", "d"}.Complete())
	assert.False(t, Credentials{ConsumerKey: "a", ConsumerSecret: "b"}.Complete())
}
