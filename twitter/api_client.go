package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/twitter-connect/internal/config"
	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"golang.org/x/oauth2"
)

const (
	userFields  = "id,name,username"
	tweetFields = "created_at,text,public_metrics,conversation_id"

	// maxResponseBytes bounds how much of an API body is read.
	maxResponseBytes = 4 << 20
)

// APIClient talks to the real API using golang.org/x/oauth2 for the token
// endpoint and bearer-authenticated requests for reads.
type APIClient struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	nowTime    func() time.Time
}

var _ Client = (*APIClient)(nil)

type APIClientOption func(*APIClient)

// WithHTTPClient sets the transport used for token and API calls.
func WithHTTPClient(c *http.Client) APIClientOption {
	return func(ac *APIClient) {
		ac.httpClient = c
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) APIClientOption {
	return func(ac *APIClient) {
		ac.nowTime = nowFunc
	}
}

func NewAPIClient(cfg config.TwitterConfig, options ...APIClientOption) *APIClient {
	ac := &APIClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetTwitterClientID(),
			ClientSecret: cfg.GetTwitterClientSecret(),
			RedirectURL:  cfg.GetTwitterCallbackURL(),
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.GetTwitterAuthURL(),
				TokenURL:  cfg.GetTwitterTokenURL(),
				AuthStyle: oauth2.AuthStyleInHeader, // confidential client, HTTP Basic
			},
		},
		apiBaseURL: strings.TrimRight(cfg.GetTwitterAPIBaseURL(), "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(ac)
	}
	return ac
}

// Configured reports whether both client credentials are present.
func (ac *APIClient) Configured() bool {
	return ac.oauth.ClientID != "" && ac.oauth.ClientSecret != ""
}

func (ac *APIClient) AuthorizationURL(state, codeVerifier string) (string, error) {
	if ac.oauth.ClientID == "" {
		return "", apperrors.Wrapf(apperrors.ErrConfiguration, "[twitter AuthorizationURL] client id missing")
	}
	if ac.oauth.RedirectURL == "" {
		return "", apperrors.Wrapf(apperrors.ErrConfiguration, "[twitter AuthorizationURL] callback url missing")
	}
	return ac.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(codeVerifier)), nil
}

func (ac *APIClient) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Token, error) {
	if !ac.Configured() {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "[twitter ExchangeCode] client credentials missing")
	}

	tok, err := ac.oauth.Exchange(ac.oauthContext(ctx), code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("[twitter ExchangeCode] %w", describeTokenError(err))
	}
	return ac.fromOAuth2(tok), nil
}

func (ac *APIClient) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	if !ac.Configured() {
		return nil, apperrors.Wrapf(apperrors.ErrConfiguration, "[twitter RefreshToken] client credentials missing")
	}
	if refreshToken == "" {
		return nil, errors.New("[twitter RefreshToken] refresh token is required")
	}

	// A token with no access token is never valid, so the source goes
	// straight to the refresh_token grant.
	tok, err := ac.oauth.TokenSource(ac.oauthContext(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("[twitter RefreshToken] %w", describeTokenError(err))
	}
	return ac.fromOAuth2(tok), nil
}

func (ac *APIClient) FetchCurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var resp struct {
		Data   *User     `json:"data"`
		Errors []problem `json:"errors"`
	}
	query := url.Values{"user.fields": {userFields}}
	if err := ac.getJSON(ctx, accessToken, "/2/users/me", query, &resp); err != nil {
		return nil, fmt.Errorf("[twitter FetchCurrentUser] %w", err)
	}
	if resp.Data == nil || resp.Data.ID == "" {
		apiErr := &APIError{StatusCode: http.StatusOK, Title: "no user in response"}
		if len(resp.Errors) > 0 {
			apiErr.Title, apiErr.Detail = resp.Errors[0].Title, resp.Errors[0].Detail
		}
		return nil, fmt.Errorf("[twitter FetchCurrentUser] %w", apiErr)
	}
	return resp.Data, nil
}

func (ac *APIClient) FetchTimeline(ctx context.Context, accessToken, userID string, opts TimelineOptions) (*Timeline, error) {
	if userID == "" {
		return nil, errors.New("[twitter FetchTimeline] user id is required")
	}

	limit := opts.MaxResults
	if limit <= 0 {
		limit = DefaultTimelineResults
	}
	requested := min(max(limit, MinTimelineResults), MaxTimelineResults)

	query := url.Values{
		"max_results":  {strconv.Itoa(requested)},
		"tweet.fields": {tweetFields},
	}
	if !opts.IncludeReplies {
		query.Set("exclude", "replies")
	}

	var resp struct {
		Data []json.RawMessage `json:"data"`
		Meta Meta              `json:"meta"`
	}
	if err := ac.getJSON(ctx, accessToken, "/2/users/"+url.PathEscape(userID)+"/tweets", query, &resp); err != nil {
		return nil, fmt.Errorf("[twitter FetchTimeline] %w", err)
	}

	tweets := resp.Data
	if tweets == nil {
		tweets = []json.RawMessage{}
	}
	if len(tweets) > limit {
		tweets = tweets[:limit]
	}
	return &Timeline{Tweets: tweets, Meta: resp.Meta}, nil
}

func (ac *APIClient) getJSON(ctx context.Context, accessToken, path string, query url.Values, out any) error {
	if accessToken == "" {
		return errors.New("access token is required")
	}

	endpoint := ac.apiBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := oauth2.NewClient(ac.oauthContext(ctx), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (ac *APIClient) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, ac.httpClient)
}

func (ac *APIClient) fromOAuth2(tok *oauth2.Token) *Token {
	expiresIn := tok.ExpiresIn
	if expiresIn <= 0 && !tok.Expiry.IsZero() {
		expiresIn = int64(tok.Expiry.Sub(ac.nowTime()).Round(time.Second) / time.Second)
	}
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}

// describeTokenError turns a token endpoint failure into an APIError.
// The raw response body is not carried over.
func describeTokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return err
	}
	apiErr := &APIError{Title: re.ErrorCode, Detail: re.ErrorDescription}
	if re.Response != nil {
		apiErr.StatusCode = re.Response.StatusCode
	}
	if apiErr.Title == "" {
		apiErr = parseAPIError(apiErr.StatusCode, re.Body)
	}
	return apiErr
}
