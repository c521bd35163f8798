// Package twitter adapts the Twitter (X) API v2 for the connection flow:
// authorization URL construction with PKCE, code exchange, token refresh and
// the two authenticated reads the application needs.
package twitter

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/twitter-connect/internal/utils"
)

// Scopes requested for every authorization.
var Scopes = []string{"tweet.read", "users.read", "offline.access"}

// Client is the capability the connection flow depends on.
type Client interface {
	// AuthorizationURL returns the provider URL that starts the flow,
	// embedding state and the S256 challenge derived from codeVerifier.
	AuthorizationURL(state, codeVerifier string) (string, error)

	// ExchangeCode trades an authorization code for tokens.
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*Token, error)

	// RefreshToken mints a new access token.
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)

	// FetchCurrentUser returns the identity that owns accessToken.
	FetchCurrentUser(ctx context.Context, accessToken string) (*User, error)

	// FetchTimeline returns the most recent tweets of userID.
	FetchTimeline(ctx context.Context, accessToken, userID string, opts TimelineOptions) (*Timeline, error)
}

// Token is the result of a code exchange or refresh.
type Token struct {
	AccessToken  string
	RefreshToken string // empty when the provider did not rotate it
	ExpiresIn    int64  // seconds, 0 when unknown
}

// ExpiresAt converts ExpiresIn into epoch milliseconds relative to now.
// It returns nil when the lifetime is unknown.
func (t *Token) ExpiresAt(now time.Time) *int64 {
	if t.ExpiresIn <= 0 {
		return nil
	}
	return utils.Ptr(now.UnixMilli() + t.ExpiresIn*1000)
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username"`
}

// Timeline API window for max_results.
const (
	MinTimelineResults     = 5
	MaxTimelineResults     = 100
	DefaultTimelineResults = 100
)

type TimelineOptions struct {
	MaxResults     int
	IncludeReplies bool
}

// Timeline is one page of tweets plus the provider's pagination metadata.
// Tweets are kept exactly as the API sent them; the requested tweetFields
// decide what each one carries.
type Timeline struct {
	Tweets []json.RawMessage `json:"tweets"`
	Meta   Meta              `json:"meta"`
}

type Meta struct {
	ResultCount   int    `json:"result_count"`
	NewestID      string `json:"newest_id,omitempty"`
	OldestID      string `json:"oldest_id,omitempty"`
	NextToken     string `json:"next_token,omitempty"`
	PreviousToken string `json:"previous_token,omitempty"`
}
