package sessions_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/jrsteele09/twitter-connect/internal/utils"
	"github.com/jrsteele09/twitter-connect/sessions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestTwitterRecord_States(t *testing.T) {
	var nilRecord *sessions.TwitterRecord
	require.False(t, nilRecord.Authenticated())
	require.False(t, nilRecord.Pending())

	pending := &sessions.TwitterRecord{State: "s", CodeVerifier: "v"}
	require.True(t, pending.Pending())
	require.False(t, pending.Authenticated())

	connected := &sessions.TwitterRecord{AccessToken: "AT", UserID: "u1"}
	require.False(t, connected.Pending())
	require.True(t, connected.Authenticated())

	tokenOnly := &sessions.TwitterRecord{AccessToken: "AT"}
	require.False(t, tokenOnly.Authenticated())
}

func TestTwitterRecord_Expired(t *testing.T) {
	now := time.UnixMilli(1_000_000)

	require.False(t, (&sessions.TwitterRecord{}).Expired(now), "unknown lifetime is never expired")
	require.True(t, (&sessions.TwitterRecord{ExpiresAt: utils.Ptr(now.UnixMilli() - 1)}).Expired(now))
	require.False(t, (&sessions.TwitterRecord{ExpiresAt: utils.Ptr(now.UnixMilli())}).Expired(now))
	require.False(t, (&sessions.TwitterRecord{ExpiresAt: utils.Ptr(now.UnixMilli() + 1)}).Expired(now))
}

func TestTwitterRecord_Clone(t *testing.T) {
	orig := &sessions.TwitterRecord{AccessToken: "AT", ExpiresAt: utils.Ptr(int64(5))}
	c := orig.Clone()
	*c.ExpiresAt = 10
	c.AccessToken = "other"

	require.Equal(t, int64(5), *orig.ExpiresAt)
	require.Equal(t, "AT", orig.AccessToken)
	require.Nil(t, (*sessions.TwitterRecord)(nil).Clone())
}

func TestTwitterRecord_LogsNoCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	logger.Info().Object("twitter", &sessions.TwitterRecord{
		State:        "STATE-SECRET",
		CodeVerifier: "VERIFIER-SECRET",
		AccessToken:  "AT-SECRET",
		RefreshToken: "RT-SECRET",
		UserID:       "u1",
		Username:     "alice",
	}).Msg("record")

	out := buf.String()
	require.Contains(t, out, `"username":"alice"`)
	require.Contains(t, out, `"has_access_token":true`)
	for _, secret := range []string{"STATE-SECRET", "VERIFIER-SECRET", "AT-SECRET", "RT-SECRET"} {
		require.NotContains(t, out, secret)
	}
}
