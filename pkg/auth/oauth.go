package auth

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"blogfinder/pkg/tumblr"

	"github.com/dghubble/oauth1"
)

// DefaultCallbackURL is where Tumblr sends the browser after approval.
// Nothing needs to listen there; the user pastes the resulting address back.
const DefaultCallbackURL = "http://localhost:8910/blogfinder/callback"

// ErrMissingVerifier is returned when a pasted callback carries no verifier
var ErrMissingVerifier = errors.New("callback has no oauth_verifier")

// OAuthFlow runs the three-legged OAuth1 exchange against Tumblr
type OAuthFlow struct {
	config        *oauth1.Config
	requestToken  string
	requestSecret string
}

// NewOAuthFlow creates a flow for the registered application's consumer pair
func NewOAuthFlow(consumerKey, consumerSecret, callbackURL string) *OAuthFlow {
	if callbackURL == "" {
		callbackURL = DefaultCallbackURL
	}
	return &OAuthFlow{
		config: &oauth1.Config{
			ConsumerKey:    consumerKey,
			ConsumerSecret: consumerSecret,
			CallbackURL:    callbackURL,
			Endpoint: oauth1.Endpoint{
				RequestTokenURL: tumblr.RequestTokenURL,
				AuthorizeURL:    tumblr.AuthorizeURL,
				AccessTokenURL:  tumblr.AccessTokenURL,
			},
		},
	}
}

// SetEndpoint points the flow at another OAuth provider
func (f *OAuthFlow) SetEndpoint(requestTokenURL, authorizeURL, accessTokenURL string) {
	f.config.Endpoint = oauth1.Endpoint{
		RequestTokenURL: requestTokenURL,
		AuthorizeURL:    authorizeURL,
		AccessTokenURL:  accessTokenURL,
	}
}

// Start obtains a request token and returns the URL the user must open
func (f *OAuthFlow) Start() (string, error) {
	token, secret, err := f.config.RequestToken()
	if err != nil {
		return "", fmt.Errorf("failed to obtain request token: %w", err)
	}
	f.requestToken, f.requestSecret = token, secret

	authURL, err := f.config.AuthorizationURL(token)
	if err != nil {
		return "", fmt.Errorf("failed to build authorization URL: %w", err)
	}
	return authURL.String(), nil
}

// Finish exchanges the verifier for an access token and returns the
// complete account. input is either the bare verifier or the full callback
// address the browser landed on.
func (f *OAuthFlow) Finish(name, input string) (*Account, error) {
	if f.requestToken == "" {
		return nil, errors.New("oauth flow not started")
	}
	verifier, err := ParseVerifier(input)
	if err != nil {
		return nil, err
	}

	token, secret, err := f.config.AccessToken(f.requestToken, f.requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	if name == "" {
		name = DefaultAccount
	}
	return &Account{
		Name:           name,
		ConsumerKey:    f.config.ConsumerKey,
		ConsumerSecret: f.config.ConsumerSecret,
		OAuthToken:     token,
		OAuthSecret:    secret,
	}, nil
}

// ParseVerifier extracts oauth_verifier from a callback address, or returns
// input unchanged when it is already a bare verifier.
func ParseVerifier(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrMissingVerifier
	}
	if !strings.Contains(input, "oauth_verifier") {
		if strings.ContainsAny(input, "/?&=") {
			return "", ErrMissingVerifier
		}
		return input, nil
	}

	query := input
	if u, err := url.Parse(input); err == nil && u.RawQuery != "" {
		query = u.RawQuery
	}
	query = strings.TrimSuffix(strings.TrimPrefix(query, "?"), "#_=_")
	values, err := url.ParseQuery(query)
	if err != nil {
		return "", fmt.Errorf("failed to parse callback: %w", err)
	}
	verifier := values.Get("oauth_verifier")
	if verifier == "" {
		return "", ErrMissingVerifier
	}
	return verifier, nil
}
