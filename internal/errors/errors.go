package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the Twitter connection flow.
// Boundaries decide redirects and status codes with errors.Is against these.
var (
	// Provider credentials missing or invalid. No network call is attempted.
	ErrConfiguration = errors.New("twitter client is not configured")

	// Callback guard failures
	ErrProviderDenied = errors.New("provider denied authorization")
	ErrStateMismatch  = errors.New("state mismatch")
	ErrMissingParams  = errors.New("missing code or code verifier")

	// Remote failures
	ErrExchangeFailed = errors.New("code exchange failed")
	ErrRefreshFailed  = errors.New("token refresh failed")
	ErrFetchFailed    = errors.New("fetch failed")

	// Precondition not met, the flow must be re-initiated
	ErrUnauthenticated = errors.New("not connected to twitter")

	// Session errors
	ErrSessionStore = errors.New("session store failure")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Mark attaches a taxonomy sentinel to a lower level error so that errors.Is
// matches the sentinel while the message keeps the cause.
func Mark(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
