package auth

import (
	"context"
	"fmt"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/jrsteele09/twitter-connect/twitter"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// EnsureValid refreshes the access token when it is known to be expired.
//
//   - no ExpiresAt: lifetime unknown, returned as is
//   - not yet expired: returned as is
//   - expired without a refresh token: returned unchanged, the caller must
//     treat the user as unauthenticated
//   - expired with a refresh token: refreshed, saved, and the new record returned
//
// A failed refresh returns ErrRefreshFailed and leaves the session untouched.
// Nothing is retried.
func (cs *ConnectionService) EnsureValid(ctx context.Context, store sessions.Store, record *sessions.TwitterRecord) (*sessions.TwitterRecord, error) {
	if record == nil {
		return nil, apperrors.ErrUnauthenticated
	}

	now := cs.now()
	if !record.Expired(now) || record.RefreshToken == "" {
		return record, nil
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Object("twitter", record).Msg("access token expired, refreshing")

	// Overlapping requests for the same session share one refresh; the
	// provider rotates refresh tokens, so a second refresh would fail.
	// The shared call is detached from any one caller; each caller still
	// stops waiting when its own context ends.
	ch := cs.refreshes.DoChan(record.RefreshToken, func() (any, error) {
		return cs.client.RefreshToken(context.WithoutCancel(ctx), record.RefreshToken)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, apperrors.Mark(apperrors.ErrRefreshFailed, ctx.Err())
	}
	if res.Err != nil {
		return nil, apperrors.Mark(apperrors.ErrRefreshFailed, res.Err)
	}
	shared := res.Shared
	tok, _ := res.Val.(*twitter.Token)
	if tok == nil || tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token issued", apperrors.ErrRefreshFailed)
	}

	updated := record.Clone()
	updated.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		updated.RefreshToken = tok.RefreshToken
	}
	updated.ExpiresAt = tok.ExpiresAt(now)

	data, err := store.Load(ctx)
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrSessionStore, err)
	}
	next := *data
	next.Twitter = updated
	if err := store.Save(ctx, &next); err != nil {
		return nil, apperrors.Mark(apperrors.ErrSessionStore, err)
	}

	logger.Info().Object("twitter", updated).Bool("shared", shared).Msg("twitter access token refreshed")
	return updated, nil
}
