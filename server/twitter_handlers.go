package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/twitter-connect/auth"
	apperrors "github.com/jrsteele09/twitter-connect/internal/errors"
	"github.com/rs/zerolog"
)

// Error bodies returned by the connect routes
const (
	msgConnectFailed  = "Failed to connect to Twitter"
	msgNotConnected   = "Not connected to Twitter"
	msgRefreshFailed  = "Failed to refresh Twitter token"
	msgFetchFailed    = "Failed to fetch Twitter data"
	msgInvalidLimit   = "limit must be a positive integer"
	queryLimit        = "limit"
	queryIncludeReply = "includeReplies"
)

// TwitterConnectHandler starts the flow and sends the browser to Twitter.
func (s *Server) TwitterConnectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := s.sessions.Bind(w, r)

		authURL, err := s.connections.Begin(r.Context(), store)
		if err != nil {
			event := zerolog.Ctx(r.Context()).Error()
			if apperrors.Is(err, apperrors.ErrConfiguration) {
				event = zerolog.Ctx(r.Context()).Warn()
			}
			event.Err(err).Msg("failed to start twitter authorization")
			writeError(w, http.StatusInternalServerError, msgConnectFailed)
			return
		}

		http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
	}
}

// TwitterCallbackHandler completes the flow and always redirects back into
// the application with the outcome in the query.
func (s *Server) TwitterCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := auth.CallbackParams{
			Code:             q.Get("code"),
			State:            q.Get("state"),
			Error:            q.Get("error"),
			ErrorDescription: q.Get("error_description"),
		}
		store := s.sessions.Bind(w, r)

		err := s.connections.Complete(r.Context(), store, params)
		outcome := auth.OutcomeFor(err)
		if err != nil {
			zerolog.Ctx(r.Context()).Warn().
				Err(err).
				Str("outcome", outcome.Value).
				Str("provider_error_description", params.ErrorDescription).
				Msg("twitter callback rejected")
		}

		http.Redirect(w, r, outcome.RedirectURL(s.config.GetPostConnectRedirect()), http.StatusTemporaryRedirect)
	}
}

// TwitterFetchHandler returns the connected user's recent tweets as
// {"success":true,"data":{"tweets":[...],"meta":{...}}}.
func (s *Server) TwitterFetchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := parseTimelineRequest(r)
		if !ok {
			writeError(w, http.StatusBadRequest, msgInvalidLimit)
			return
		}
		store := s.sessions.Bind(w, r)

		timeline, err := s.connections.FetchTimeline(r.Context(), store, req)
		if err != nil {
			logger := zerolog.Ctx(r.Context())
			switch {
			case apperrors.Is(err, apperrors.ErrUnauthenticated):
				logger.Debug().Err(err).Msg("timeline requested without a connection")
				writeError(w, http.StatusUnauthorized, msgNotConnected)
			case apperrors.Is(err, apperrors.ErrRefreshFailed):
				logger.Warn().Err(err).Msg("twitter token refresh failed")
				writeError(w, http.StatusUnauthorized, msgRefreshFailed)
			default:
				logger.Error().Err(err).Msg("twitter timeline fetch failed")
				writeError(w, http.StatusInternalServerError, msgFetchFailed)
			}
			return
		}

		writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: timeline})
	}
}

// parseTimelineRequest reads limit (optional positive integer) and
// includeReplies (only "true" enables it).
func parseTimelineRequest(r *http.Request) (auth.TimelineRequest, bool) {
	q := r.URL.Query()
	req := auth.TimelineRequest{IncludeReplies: q.Get(queryIncludeReply) == "true"}

	if raw := q.Get(queryLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return auth.TimelineRequest{}, false
		}
		req.Limit = limit
	}
	return req, true
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
