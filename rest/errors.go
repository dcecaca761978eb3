package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Common errors returned by the dispatcher.
var (
	// ErrBadRequest is matched by errors for a 400 response.
	ErrBadRequest = errors.New("bad request: check that the input is valid")
	// ErrUnauthorized is matched by errors for a 401 response.
	ErrUnauthorized = errors.New("unauthorized: check the API key")
	// ErrForbidden is matched by errors for a 403 response without a retry-after header.
	ErrForbidden = errors.New("forbidden: no permission to access this resource")
	// ErrRateLimited is matched by errors for a 403 response carrying a retry-after header.
	ErrRateLimited = errors.New("rate limited by provider")
	// ErrInternalServerError is matched by errors for a 500 response.
	ErrInternalServerError = errors.New("provider internal server error")
	// ErrHTTP is matched by every other non-2xx, non-404 response.
	ErrHTTP = errors.New("unexpected http status")
	// ErrStopped is returned when a call is dispatched after Stop.
	ErrStopped = errors.New("dispatcher is stopped")
)

// ErrorKind classifies a provider status code.
type ErrorKind int

const (
	// KindNone means the status is not an error (2xx or 404).
	KindNone ErrorKind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindRateLimited
	KindInternalServerError
	KindHTTP
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindRateLimited:
		return "rate_limited"
	case KindInternalServerError:
		return "internal_server_error"
	default:
		return "http_error"
	}
}

// sentinel returns the package error matched by errors.Is for the kind.
func (k ErrorKind) sentinel() error {
	switch k {
	case KindBadRequest:
		return ErrBadRequest
	case KindUnauthorized:
		return ErrUnauthorized
	case KindForbidden:
		return ErrForbidden
	case KindRateLimited:
		return ErrRateLimited
	case KindInternalServerError:
		return ErrInternalServerError
	default:
		return ErrHTTP
	}
}

// Classify maps a status code and response headers to an ErrorKind.
// 2xx and 404 are not errors.
func Classify(status int, header http.Header) ErrorKind {
	switch {
	case status >= 200 && status <= 299:
		return KindNone
	case status == http.StatusNotFound:
		return KindNone
	case status == http.StatusBadRequest:
		return KindBadRequest
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		if header.Get("Retry-After") != "" {
			return KindRateLimited
		}
		return KindForbidden
	case status == http.StatusInternalServerError:
		return KindInternalServerError
	default:
		return KindHTTP
	}
}

// HTTPError is returned by Dispatch for every classified failure.
type HTTPError struct {
	Kind    ErrorKind
	Status  int
	URL     string
	Payload any
	// RetryAfter is the provider cooldown, only set for KindRateLimited.
	RetryAfter time.Duration
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Kind == KindRateLimited {
		msg = fmt.Sprintf("%s, cooldown expires in %s", msg, e.RetryAfter)
	}
	msg = fmt.Sprintf("recnet: %s (status %d, url %s)", msg, e.Status, e.URL)
	if e.Payload == nil {
		return msg
	}
	return msg + ": " + summarizePayload(e.Payload)
}

// maxErrorPayload caps how much of a payload an error message repeats.
// The full payload stays on HTTPError.Payload.
const maxErrorPayload = 200

func summarizePayload(payload any) string {
	s := []rune(fmt.Sprintf("%v", payload))
	if len(s) <= maxErrorPayload {
		return string(s)
	}
	return fmt.Sprintf("%s... (%d more chars)", string(s[:maxErrorPayload]), len(s)-maxErrorPayload)
}

// Unwrap returns the sentinel error for the kind so errors.Is works.
func (e *HTTPError) Unwrap() error {
	return e.Kind.sentinel()
}

// AsHTTPError extracts an *HTTPError from err.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// TransportError is returned when every attempt of a call failed below HTTP.
type TransportError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("recnet: %s %s failed after %d attempts: %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// newHTTPError builds the error for a classified response.
func newHTTPError(kind ErrorKind, resp *Response) *HTTPError {
	err := &HTTPError{
		Kind:    kind,
		Status:  resp.Status,
		URL:     resp.URL,
		Payload: resp.Payload,
	}
	if kind == KindRateLimited {
		err.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return err
}

// parseRetryAfter accepts delay-seconds (fractions allowed) or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds * float64(time.Second))
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
