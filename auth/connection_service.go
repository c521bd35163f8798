package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/jrsteele09/twitter-connect/random"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/jrsteele09/twitter-connect/twitter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// MinStateLength and MinVerifierLength are floors; shorter values are raised.
	MinStateLength    = 32
	MinVerifierLength = 64
	// MaxVerifierLength is the PKCE upper bound (RFC 7636 §4.1).
	MaxVerifierLength = 128
)

// ConnectionService runs the Twitter authorization code + PKCE flow and
// manages the credentials it produces. Session state is never held here; every
// operation receives the request's sessions.Store.
type ConnectionService struct {
	client         twitter.Client
	nowTime        func() time.Time
	stateLength    int
	verifierLength int

	// refreshes collapses concurrent refreshes of the same refresh token
	refreshes singleflight.Group
}

// ConnectionServiceOption defines a function type to modify the ConnectionService instance.
type ConnectionServiceOption func(*ConnectionService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ConnectionServiceOption {
	return func(cs *ConnectionService) {
		cs.nowTime = nowFunc
	}
}

// WithStateLength sets the state length, never below MinStateLength.
func WithStateLength(n int) ConnectionServiceOption {
	return func(cs *ConnectionService) {
		cs.stateLength = max(n, MinStateLength)
	}
}

// WithVerifierLength sets the code verifier length within [MinVerifierLength, MaxVerifierLength].
func WithVerifierLength(n int) ConnectionServiceOption {
	return func(cs *ConnectionService) {
		cs.verifierLength = min(max(n, MinVerifierLength), MaxVerifierLength)
	}
}

// configuredClient is implemented by clients that can report missing credentials up front.
type configuredClient interface {
	Configured() bool
}

func NewConnectionService(client twitter.Client, options ...ConnectionServiceOption) (*ConnectionService, error) {
	if client == nil {
		return nil, errors.New("[NewConnectionService] twitter client is required")
	}

	cs := &ConnectionService{
		client:         client,
		nowTime:        time.Now,
		stateLength:    MinStateLength,
		verifierLength: MinVerifierLength,
	}
	for _, opt := range options {
		opt(cs)
	}
	return cs, nil
}

// Begin starts a new authorization. Any unfinished flow in the session is
// replaced by a fresh state and code verifier, the session is saved, and the
// provider URL to redirect the user to is returned.
//
// Missing client credentials fail with ErrConfiguration before the session
// is touched.
func (cs *ConnectionService) Begin(ctx context.Context, store sessions.Store) (string, error) {
	if c, ok := cs.client.(configuredClient); ok && !c.Configured() {
		return "", fmt.Errorf("[ConnectionService Begin] %w", apperrors.ErrConfiguration)
	}

	state, err := random.String(cs.stateLength)
	if err != nil {
		return "", fmt.Errorf("[ConnectionService Begin] state: %w", err)
	}
	verifier, err := random.String(cs.verifierLength)
	if err != nil {
		return "", fmt.Errorf("[ConnectionService Begin] code verifier: %w", err)
	}

	// Building the URL is local; doing it first keeps configuration failures
	// from leaving a half-written session behind.
	authURL, err := cs.client.AuthorizationURL(state, verifier)
	if err != nil {
		return "", fmt.Errorf("[ConnectionService Begin] %w", err)
	}

	data, err := store.Load(ctx)
	if err != nil {
		return "", apperrors.Mark(apperrors.ErrSessionStore, err)
	}
	data.Twitter = &sessions.TwitterRecord{
		State:        state,
		CodeVerifier: verifier,
	}
	if err := store.Save(ctx, data); err != nil {
		return "", apperrors.Mark(apperrors.ErrSessionStore, err)
	}

	zerolog.Ctx(ctx).Debug().Msg("twitter authorization started")
	return authURL, nil
}

func (cs *ConnectionService) now() time.Time {
	return cs.nowTime()
}
