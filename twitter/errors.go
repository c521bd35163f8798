package twitter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-success answer from the API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	msg := e.Title
	if e.Detail != "" && e.Detail != e.Title {
		msg = strings.TrimSpace(msg + ": " + e.Detail)
	}
	if msg == "" {
		return fmt.Sprintf("twitter api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("twitter api: status %d: %s", e.StatusCode, msg)
}

// problem covers both the RFC 7807 body (title/detail) and the entries of
// the "errors" array the API returns alongside partial data.
type problem struct {
	Title   string `json:"title"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var p struct {
		problem
		Errors []problem `json:"errors"`
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return apiErr
	}
	apiErr.Title, apiErr.Detail = p.Title, p.Detail
	if apiErr.Title == "" && len(p.Errors) > 0 {
		apiErr.Title = p.Errors[0].Title
		if apiErr.Title == "" {
			apiErr.Title = p.Errors[0].Message
		}
		apiErr.Detail = p.Errors[0].Detail
	}
	return apiErr
}
