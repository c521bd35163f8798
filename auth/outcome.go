package auth

import (
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
)

// Outcome is the machine-readable result of a callback, appended to the
// post-connect redirect as a single query parameter.
type Outcome struct {
	Param string
	Value string
}

var (
	OutcomeSuccess        = Outcome{Param: "connected", Value: "twitter"}
	OutcomeProviderDenied = Outcome{Param: "error", Value: "twitter_auth_failed"}
	OutcomeStateMismatch  = Outcome{Param: "error", Value: "twitter_state_mismatch"}
	OutcomeMissingParams  = Outcome{Param: "error", Value: "twitter_missing_params"}
	OutcomeCallbackFailed = Outcome{Param: "error", Value: "twitter_callback_failed"}
)

// OutcomeFor maps the error returned by Complete to its outcome. Exchange,
// identity, session and unexpected failures all report twitter_callback_failed.
func OutcomeFor(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case apperrors.Is(err, apperrors.ErrProviderDenied):
		return OutcomeProviderDenied
	case apperrors.Is(err, apperrors.ErrStateMismatch):
		return OutcomeStateMismatch
	case apperrors.Is(err, apperrors.ErrMissingParams):
		return OutcomeMissingParams
	default:
		return OutcomeCallbackFailed
	}
}

// Success reports whether the outcome is a completed connection.
func (o Outcome) Success() bool {
	return o == OutcomeSuccess
}

// RedirectURL appends the outcome to base, keeping any query base already has.
func (o Outcome) RedirectURL(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		sep := "?"
		if strings.Contains(base, "?") {
			sep = "&"
		}
		return base + sep + url.QueryEscape(o.Param) + "=" + url.QueryEscape(o.Value)
	}
	q := u.Query()
	q.Set(o.Param, o.Value)
	u.RawQuery = q.Encode()
	return u.String()
}
