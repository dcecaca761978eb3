package recnet

import (
	"errors"
	"fmt"
	"time"

	"github.com/recnetbot/recnet/rest"
)

// Common errors returned by the RecNet client.
var (
	// ErrMissingAPIKey indicates the client was created without a subscription key.
	ErrMissingAPIKey = errors.New("recnet API key is required")

	// ErrUnexpectedPayload indicates the API answered with a shape the client does not understand.
	ErrUnexpectedPayload = errors.New("unexpected payload from RecNet API")
)

// PayloadError wraps a decode failure for one endpoint.
type PayloadError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *PayloadError) Error() string {
	return fmt.Sprintf("recnet: unexpected payload from %s: %v", e.Endpoint, e.Err)
}

// Is reports a match against ErrUnexpectedPayload.
func (e *PayloadError) Is(target error) bool {
	return target == ErrUnexpectedPayload
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// IsRateLimited reports whether err is a provider rate limit and returns
// the cooldown it asked for.
func IsRateLimited(err error) (time.Duration, bool) {
	httpErr, ok := rest.AsHTTPError(err)
	if !ok || httpErr.Kind != rest.KindRateLimited {
		return 0, false
	}
	return httpErr.RetryAfter, true
}

// IsUnauthorized reports whether err means the API key was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, rest.ErrUnauthorized)
}
