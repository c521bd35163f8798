package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/twitter-connect/internal/config"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

// unsetEnv clears keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // restores the original value on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetEnv(t, "PORT", "ENV", "POST_CONNECT_REDIRECT", "SESSION_COOKIE_NAME", "SESSION_MAX_AGE",
		"TWITTER_CLIENT_ID", "TWITTER_AUTH_URL", "TWITTER_TOKEN_URL", "TWITTER_API_BASE_URL")
	t.Setenv("SESSION_SECRET", validSecret)

	c, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, config.EnvDev, c.GetEnv())
	require.False(t, c.IsProduction())
	require.Equal(t, "/", c.GetPostConnectRedirect())
	require.Equal(t, "lexicloud_session", c.GetSessionCookieName())
	require.Equal(t, 14*24*time.Hour, c.GetSessionMaxAge())
	require.Equal(t, "https://twitter.com/i/oauth2/authorize", c.GetTwitterAuthURL())
	require.Equal(t, "https://api.twitter.com/2/oauth2/token", c.GetTwitterTokenURL())
	require.Equal(t, "https://api.twitter.com", c.GetTwitterAPIBaseURL())
	require.Empty(t, c.GetTwitterClientID(), "missing credentials are not fatal")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SESSION_SECRET", validSecret)
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("TWITTER_CLIENT_ID", "client-1")
	t.Setenv("TWITTER_CLIENT_SECRET", "secret-1")
	t.Setenv("TWITTER_CALLBACK_URL", "https://app.example.com/api/connect/twitter/callback")
	t.Setenv("SESSION_MAX_AGE", "1h")
	t.Setenv("POST_CONNECT_REDIRECT", "/settings/accounts")

	c, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, ":9000", c.GetPort())
	require.True(t, c.IsProduction())
	require.Equal(t, "client-1", c.GetTwitterClientID())
	require.Equal(t, "secret-1", c.GetTwitterClientSecret())
	require.Equal(t, "https://app.example.com/api/connect/twitter/callback", c.GetTwitterCallbackURL())
	require.Equal(t, time.Hour, c.GetSessionMaxAge())
	require.Equal(t, "/settings/accounts", c.GetPostConnectRedirect())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing session secret", env: map[string]string{"SESSION_SECRET": ""}},
		{name: "short session secret", env: map[string]string{"SESSION_SECRET": "too-short"}},
		{name: "unknown environment", env: map[string]string{"SESSION_SECRET": validSecret, "ENV": "staging"}},
		{name: "absolute redirect", env: map[string]string{"SESSION_SECRET": validSecret, "POST_CONNECT_REDIRECT": "https://evil.example.com"}},
		{name: "protocol relative redirect", env: map[string]string{"SESSION_SECRET": validSecret, "POST_CONNECT_REDIRECT": "//evil.example.com"}},
		{name: "backslash redirect", env: map[string]string{"SESSION_SECRET": validSecret, "POST_CONNECT_REDIRECT": `/\evil.example.com`}},
		{name: "bad duration", env: map[string]string{"SESSION_SECRET": validSecret, "SESSION_MAX_AGE": "fortnight"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ENV", "DEV")
			t.Setenv("POST_CONNECT_REDIRECT", "/")
			t.Setenv("SESSION_MAX_AGE", "336h")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			require.Error(t, err)
		})
	}
}
