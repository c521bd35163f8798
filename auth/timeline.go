package auth

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/jrsteele09/twitter-connect/twitter"
)

// TimelineRequest selects the page of tweets to fetch.
type TimelineRequest struct {
	Limit          int // defaults to twitter.DefaultTimelineResults
	IncludeReplies bool
}

// FetchTimeline returns the connected user's most recent tweets, refreshing
// the access token first when needed.
func (cs *ConnectionService) FetchTimeline(ctx context.Context, store sessions.Store, req TimelineRequest) (*twitter.Timeline, error) {
	data, err := store.Load(ctx)
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrSessionStore, err)
	}
	if !data.Twitter.Authenticated() {
		return nil, apperrors.ErrUnauthenticated
	}

	record, err := cs.EnsureValid(ctx, store, data.Twitter)
	if err != nil {
		return nil, err
	}
	if record.Expired(cs.now()) {
		return nil, fmt.Errorf("%w: access token expired and no refresh token", apperrors.ErrUnauthenticated)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = twitter.DefaultTimelineResults
	}
	timeline, err := cs.client.FetchTimeline(ctx, record.AccessToken, record.UserID, twitter.TimelineOptions{
		MaxResults:     limit,
		IncludeReplies: req.IncludeReplies,
	})
	if err != nil {
		return nil, apperrors.Mark(apperrors.ErrFetchFailed, err)
	}
	if timeline == nil {
		return nil, fmt.Errorf("%w: no timeline returned", apperrors.ErrFetchFailed)
	}
	if timeline.Tweets == nil {
		timeline.Tweets = []json.RawMessage{}
	}
	return timeline, nil
}
