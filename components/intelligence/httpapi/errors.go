package httpapi

import (
	"errors"
	"net/http"

	intelligence "github.com/goliatone/go-intelligence/components/intelligence"
	"github.com/goliatone/go-intelligence/components/intelligence/assistant"
	"github.com/goliatone/go-intelligence/components/intelligence/interaction"
	"github.com/goliatone/go-intelligence/components/intelligence/queries"
)

// errBadRequest marks malformed payloads.
var errBadRequest = errors.New("httpapi: bad request")

// StatusFor maps service errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, intelligence.ErrMissingViewer):
		return http.StatusUnauthorized
	case errors.Is(err, intelligence.ErrUnknownTab),
		errors.Is(err, intelligence.ErrMemberNotFound),
		errors.Is(err, intelligence.ErrPollNotFound),
		errors.Is(err, assistant.ErrSuggestionNotFound),
		errors.Is(err, queries.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, intelligence.ErrTabInactive),
		errors.Is(err, assistant.ErrTyping),
		errors.Is(err, assistant.ErrSuggestionUsed),
		errors.Is(err, assistant.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, interaction.ErrEmptyPoll),
		errors.Is(err, interaction.ErrUnknownPlatform):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
