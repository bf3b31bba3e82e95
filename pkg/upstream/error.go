// Package upstream carries provider failures back to the API layer with
// enough detail to relay the provider's own status code and error body.
package upstream

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// Error is returned by provider clients when the provider answered with a
// non-success HTTP status. The status and body are relayed to the caller
// unmodified.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// NewError creates an upstream error for the named provider.
func NewError(provider string, statusCode int, body []byte) *Error {
	return &Error{
		Provider:   provider,
		StatusCode: statusCode,
		Body:       string(body),
	}
}

// Status extracts the upstream HTTP status and error message from err.
// Recognizes *upstream.Error (hand-rolled clients) and *googleapi.Error
// (Google SDK calls). The second return is false when err did not originate
// from an upstream response, in which case the failure is local.
func Status(err error) (statusCode int, message string, ok bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.StatusCode, ue.Body, true
	}

	var ge *googleapi.Error
	if errors.As(err, &ge) {
		msg := ge.Message
		if msg == "" {
			msg = ge.Body
		}
		return ge.Code, msg, true
	}

	return 0, "", false
}
