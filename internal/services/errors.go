package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a playlist could not be resolved.
type ErrorKind string

const (
	KindInvalidRequest     ErrorKind = "invalid_request"
	KindConfigurationError ErrorKind = "configuration_error"
	KindUpstreamError      ErrorKind = "upstream_error"
	KindInvalidResponse    ErrorKind = "invalid_response"
	KindInternalError      ErrorKind = "internal_error"
)

// Messages returned to callers.
const (
	MsgPlaylistIDRequired  = "Playlist ID is required"
	MsgAPIKeyNotConfigured = "YouTube API key is not configured"
	MsgFetchPlaylistFailed = "Failed to fetch playlist"
	MsgInvalidPlaylistData = "Invalid playlist data received"
	MsgInternalServerError = "Internal server error"
	MsgFetchVideosFailed   = "Failed to fetch playlist videos"
)

// ResolveError is returned by Resolver.Resolve. Message is safe to show to
// users; Cause is kept for logging only.
type ResolveError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Cause   error
}

func (e *ResolveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Cause
}

func newInvalidRequest() *ResolveError {
	return &ResolveError{Kind: KindInvalidRequest, Status: http.StatusBadRequest, Message: MsgPlaylistIDRequired}
}

func newConfigurationError() *ResolveError {
	return &ResolveError{Kind: KindConfigurationError, Status: http.StatusInternalServerError, Message: MsgAPIKeyNotConfigured}
}

func newUpstreamError(status int, message string) *ResolveError {
	if message == "" {
		message = MsgFetchPlaylistFailed
	}
	return &ResolveError{Kind: KindUpstreamError, Status: status, Message: message}
}

func newInvalidResponse() *ResolveError {
	return &ResolveError{Kind: KindInvalidResponse, Status: http.StatusBadGateway, Message: MsgInvalidPlaylistData}
}

func newInternalError(cause error) *ResolveError {
	return &ResolveError{Kind: KindInternalError, Status: http.StatusInternalServerError, Message: MsgInternalServerError, Cause: cause}
}

// AsResolveError converts any error into a *ResolveError. Errors that are
// not already classified become internal errors.
func AsResolveError(err error) *ResolveError {
	var re *ResolveError
	if errors.As(err, &re) {
		return re
	}
	return newInternalError(err)
}
