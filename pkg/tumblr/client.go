package tumblr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errs "blogfinder/pkg/errors"
	"blogfinder/pkg/logger"

	"github.com/dghubble/oauth1"
)

// Credentials are the four OAuth1 values every API call is signed with
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
}

// Complete reports whether all four values are present
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != "" && c.Token != "" && c.TokenSecret != ""
}

// Client is a Tumblr API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     logger.Logger
}

// NewClient creates a client whose requests are OAuth1-signed
func NewClient(creds Credentials, timeout time.Duration, log logger.Logger) *Client {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.Token, creds.TokenSecret)

	httpClient := cfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = timeout

	return NewClientWithHTTP(httpClient, BaseURL, log)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(httpClient *http.Client, baseURL string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  "blogfinder/1.0",
		logger:     log,
	}
}

// SetBaseURL points the client at another API host
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// SearchTag fetches one page of posts carrying q.Tag, older than q.Before
// when set.
func (c *Client) SearchTag(ctx context.Context, q SearchQuery) (PostPage, error) {
	var resp taggedResponse
	if err := c.getJSON(ctx, TaggedURL(c.baseURL, q), &resp); err != nil {
		return PostPage{}, err
	}
	if err := checkMeta(resp.Meta); err != nil {
		return PostPage{}, err
	}

	page := PostPage{Posts: resp.Response}
	page.NextBefore = oldestTimestamp(resp.Response)
	// the cursor must move backwards or the walk would repeat itself
	page.HasMore = len(resp.Response) > 0 && page.NextBefore > 0 &&
		(q.Before == 0 || page.NextBefore < q.Before)
	return page, nil
}

// GetBlogInfo fetches the public profile of a blog
func (c *Client) GetBlogInfo(ctx context.Context, name string) (BlogInfo, error) {
	var resp blogInfoResponse
	if err := c.getJSON(ctx, BlogInfoURL(c.baseURL, name), &resp); err != nil {
		return BlogInfo{}, err
	}
	if err := checkMeta(resp.Meta); err != nil {
		return BlogInfo{}, err
	}
	if resp.Response.Blog == nil {
		return BlogInfo{}, errs.New(errs.ErrorTypeParsing, "blog info response for %s has no blog object", name)
	}
	return *resp.Response.Blog, nil
}

func oldestTimestamp(posts []Post) int64 {
	var oldest int64
	for _, p := range posts {
		if p.Timestamp > 0 && (oldest == 0 || p.Timestamp < oldest) {
			oldest = p.Timestamp
		}
	}
	return oldest
}

func checkMeta(m Meta) error {
	if m.Status == 0 || m.Status == http.StatusOK {
		return nil
	}
	return &errs.Error{Type: errs.TypeForStatusCode(m.Status), Message: m.Msg, Code: m.Status}
}

// getJSON performs a GET request and decodes the JSON body into target
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return errs.New(errs.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()
	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: fmt.Sprintf("failed to read response body: %v", err), Code: resp.StatusCode}
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		preview := string(body)
		if len(preview) > 200 {
			preview = preview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"error":        err.Error(),
			"body_preview": preview,
		})
		return &errs.Error{Type: errs.ErrorTypeParsing, Message: fmt.Sprintf("failed to parse JSON: %v", err), Code: resp.StatusCode}
	}
	return nil
}

// statusError builds a typed error, using the API's meta message when the
// body carries one.
func statusError(code int, body []byte) error {
	msg := http.StatusText(code)
	var envelope struct {
		Meta Meta `json:"meta"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Meta.Msg != "" {
		msg = envelope.Meta.Msg
	}
	return &errs.Error{Type: errs.TypeForStatusCode(code), Message: msg, Code: code}
}
