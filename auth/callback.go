package auth

import (
	"context"
	"fmt"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/jrsteele09/twitter-connect/twitter"
	"github.com/rs/zerolog"
)

// CallbackParams are the query parameters the provider redirects back with.
type CallbackParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// callbackFlow carries the values each step of the callback produces.
type callbackFlow struct {
	params CallbackParams
	data   *sessions.Data
	token  *twitter.Token
	user   *twitter.User
}

// callbackStep is one link of the callback chain. A non-nil error ends the flow.
type callbackStep func(ctx context.Context, f *callbackFlow) error

// Complete validates the provider's redirect and, when every check passes,
// exchanges the code, resolves the user and stores the credentials.
//
// The steps run in a fixed order and none are skipped:
//
//	provider error / no session -> state -> code + verifier -> exchange -> identity -> commit
//
// The first three make no outbound calls. Nothing is written to the session
// unless every step before the commit succeeded.
func (cs *ConnectionService) Complete(ctx context.Context, store sessions.Store, params CallbackParams) error {
	data, err := store.Load(ctx)
	if err != nil {
		return apperrors.Mark(apperrors.ErrSessionStore, err)
	}

	flow := &callbackFlow{params: params, data: data}
	steps := []callbackStep{
		checkProviderResponse,
		checkState,
		checkCodeAndVerifier,
		cs.exchangeCode,
		cs.fetchIdentity,
		cs.commit(store),
	}
	for _, step := range steps {
		if err := step(ctx, flow); err != nil {
			return err
		}
	}

	zerolog.Ctx(ctx).Info().Object("twitter", flow.data.Twitter).Msg("twitter account connected")
	return nil
}

func checkProviderResponse(_ context.Context, f *callbackFlow) error {
	if f.params.Error != "" {
		return fmt.Errorf("%w: provider returned %q", apperrors.ErrProviderDenied, f.params.Error)
	}
	if f.data.Twitter == nil {
		return fmt.Errorf("%w: no session found", apperrors.ErrProviderDenied)
	}
	return nil
}

// checkState is the CSRF check. state is not secret, so a plain comparison is enough.
func checkState(_ context.Context, f *callbackFlow) error {
	if f.params.State == "" {
		return fmt.Errorf("%w: state missing from callback", apperrors.ErrStateMismatch)
	}
	if f.params.State != f.data.Twitter.State {
		return apperrors.ErrStateMismatch
	}
	return nil
}

func checkCodeAndVerifier(_ context.Context, f *callbackFlow) error {
	if f.params.Code == "" {
		return fmt.Errorf("%w: code missing from callback", apperrors.ErrMissingParams)
	}
	if f.data.Twitter.CodeVerifier == "" {
		return fmt.Errorf("%w: no code verifier in session", apperrors.ErrMissingParams)
	}
	return nil
}

func (cs *ConnectionService) exchangeCode(ctx context.Context, f *callbackFlow) error {
	tok, err := cs.client.ExchangeCode(ctx, f.params.Code, f.data.Twitter.CodeVerifier)
	if err != nil {
		return apperrors.Mark(apperrors.ErrExchangeFailed, err)
	}
	if tok == nil || tok.AccessToken == "" {
		return fmt.Errorf("%w: no access token issued", apperrors.ErrExchangeFailed)
	}
	f.token = tok
	return nil
}

// fetchIdentity failures are reported as exchange failures.
func (cs *ConnectionService) fetchIdentity(ctx context.Context, f *callbackFlow) error {
	user, err := cs.client.FetchCurrentUser(ctx, f.token.AccessToken)
	if err != nil {
		return apperrors.Mark(apperrors.ErrExchangeFailed, fmt.Errorf("fetch identity: %w", err))
	}
	f.user = user
	return nil
}

// commit overwrites the record: state and verifier are dropped so the same
// callback can never be completed twice.
func (cs *ConnectionService) commit(store sessions.Store) callbackStep {
	return func(ctx context.Context, f *callbackFlow) error {
		next := *f.data
		next.Twitter = &sessions.TwitterRecord{
			AccessToken:  f.token.AccessToken,
			RefreshToken: f.token.RefreshToken,
			ExpiresAt:    f.token.ExpiresAt(cs.now()),
			UserID:       f.user.ID,
			Username:     f.user.Username,
		}
		if err := store.Save(ctx, &next); err != nil {
			return apperrors.Mark(apperrors.ErrSessionStore, err)
		}
		f.data = &next
		return nil
	}
}
