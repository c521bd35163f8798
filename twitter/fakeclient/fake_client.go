package fakeclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"

	"github.com/jrsteele09/twitter-connect/twitter"
	"golang.org/x/oauth2"
)

var _ twitter.Client = (*FakeClient)(nil)

// Call records one outbound request made through the fake.
type Call struct {
	Method       string
	Code         string
	CodeVerifier string
	RefreshToken string
	AccessToken  string
	UserID       string
	Options      twitter.TimelineOptions
}

// FakeClient is a scripted twitter.Client that records every call.
type FakeClient struct {
	lock sync.Mutex

	AuthErr error

	ExchangeToken *twitter.Token
	ExchangeErr   error
	// ExpectedVerifier, when set, makes ExchangeCode fail for any other verifier.
	ExpectedVerifier string

	RefreshTokens []*twitter.Token // consumed in order, the last one repeats
	RefreshErr    error

	User    *twitter.User
	UserErr error

	Timeline    *twitter.Timeline // nil makes FetchTimeline return (nil, nil)
	TimelineErr error

	calls []Call
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		ExchangeToken: &twitter.Token{AccessToken: "AT1", RefreshToken: "RT1", ExpiresIn: 7200},
		RefreshTokens: []*twitter.Token{{AccessToken: "AT2", RefreshToken: "RT2", ExpiresIn: 7200}},
		User:          &twitter.User{ID: "u1", Name: "Alice", Username: "alice"},
		Timeline:      &twitter.Timeline{Tweets: []json.RawMessage{}},
	}
}

func (fc *FakeClient) AuthorizationURL(state, codeVerifier string) (string, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	if fc.AuthErr != nil {
		return "", fc.AuthErr
	}
	q := url.Values{
		"response_type":         {"code"},
		"state":                 {state},
		"code_challenge":        {oauth2.S256ChallengeFromVerifier(codeVerifier)},
		"code_challenge_method": {"S256"},
	}
	return "https://twitter.example/i/oauth2/authorize?" + q.Encode(), nil
}

func (fc *FakeClient) ExchangeCode(_ context.Context, code, codeVerifier string) (*twitter.Token, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.calls = append(fc.calls, Call{Method: "ExchangeCode", Code: code, CodeVerifier: codeVerifier})
	if fc.ExchangeErr != nil {
		return nil, fc.ExchangeErr
	}
	if fc.ExpectedVerifier != "" && codeVerifier != fc.ExpectedVerifier {
		return nil, errors.New("invalid_grant: code verifier does not match challenge")
	}
	tok := *fc.ExchangeToken
	return &tok, nil
}

func (fc *FakeClient) RefreshToken(_ context.Context, refreshToken string) (*twitter.Token, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.calls = append(fc.calls, Call{Method: "RefreshToken", RefreshToken: refreshToken})
	if fc.RefreshErr != nil {
		return nil, fc.RefreshErr
	}
	tok := *fc.RefreshTokens[0]
	if len(fc.RefreshTokens) > 1 {
		fc.RefreshTokens = fc.RefreshTokens[1:]
	}
	return &tok, nil
}

func (fc *FakeClient) FetchCurrentUser(_ context.Context, accessToken string) (*twitter.User, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.calls = append(fc.calls, Call{Method: "FetchCurrentUser", AccessToken: accessToken})
	if fc.UserErr != nil {
		return nil, fc.UserErr
	}
	u := *fc.User
	return &u, nil
}

func (fc *FakeClient) FetchTimeline(_ context.Context, accessToken, userID string, opts twitter.TimelineOptions) (*twitter.Timeline, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.calls = append(fc.calls, Call{Method: "FetchTimeline", AccessToken: accessToken, UserID: userID, Options: opts})
	if fc.TimelineErr != nil {
		return nil, fc.TimelineErr
	}
	if fc.Timeline == nil {
		return nil, nil
	}
	tl := *fc.Timeline
	return &tl, nil
}

// Calls returns a copy of the recorded outbound calls.
func (fc *FakeClient) Calls() []Call {
	fc.lock.Lock()
	defer fc.lock.Unlock()
	return append([]Call(nil), fc.calls...)
}

// CallsTo returns the recorded calls for one method.
func (fc *FakeClient) CallsTo(method string) []Call {
	var out []Call
	for _, c := range fc.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
