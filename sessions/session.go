package sessions

import (
	"context"
	"time"

	"github.com/jrsteele09/twitter-connect/internal/utils"
	"github.com/rs/zerolog"
)

// Data is the whole session payload. It is loaded and saved as one unit; a
// save always overwrites the previous record.
type Data struct {
	Twitter *TwitterRecord `json:"twitter,omitempty"`
}

// TwitterRecord holds the OAuth flow and credential state for one browser session.
//
// State and CodeVerifier exist only between the start of the flow and the
// callback. The token and identity fields replace them once the callback
// succeeds. A record that only carries State/CodeVerifier is a started but
// unfinished flow and is not authenticated.
type TwitterRecord struct {
	State        string `json:"state,omitempty"`
	CodeVerifier string `json:"codeVerifier,omitempty"`

	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    *int64 `json:"expiresAt,omitempty"` // epoch milliseconds, tracks AccessToken

	UserID   string `json:"userId,omitempty"`
	Username string `json:"username,omitempty"`
}

// Authenticated reports whether the record carries credentials and an identity.
func (t *TwitterRecord) Authenticated() bool {
	return t != nil && t.AccessToken != "" && t.UserID != ""
}

// Pending reports whether a flow was started and not yet completed.
func (t *TwitterRecord) Pending() bool {
	return t != nil && t.State != "" && t.AccessToken == ""
}

// Expired reports whether the access token is known to be past its expiry.
// A record without ExpiresAt has an unknown lifetime and is never expired.
func (t *TwitterRecord) Expired(now time.Time) bool {
	if t == nil || t.ExpiresAt == nil {
		return false
	}
	return utils.Value(t.ExpiresAt) < now.UnixMilli()
}

// Clone returns a deep copy.
func (t *TwitterRecord) Clone() *TwitterRecord {
	if t == nil {
		return nil
	}
	c := *t
	c.ExpiresAt = utils.Copy(t.ExpiresAt)
	return &c
}

// MarshalZerologObject logs the record without any credential material.
func (t *TwitterRecord) MarshalZerologObject(e *zerolog.Event) {
	if t == nil {
		return
	}
	e.Str("user_id", t.UserID).
		Str("username", t.Username).
		Bool("pending", t.Pending()).
		Bool("has_access_token", t.AccessToken != "").
		Bool("has_refresh_token", t.RefreshToken != "")
	if t.ExpiresAt != nil {
		e.Time("expires_at", time.UnixMilli(utils.Value(t.ExpiresAt)))
	}
}

// Store loads and saves the session bound to the current request.
type Store interface {
	// Load returns the session data, or empty data when there is none yet.
	// Repeated calls within a request return the same data.
	Load(ctx context.Context) (*Data, error)

	// Save atomically replaces the whole session record.
	Save(ctx context.Context, data *Data) error
}
