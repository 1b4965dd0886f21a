package request

import (
	"fmt"
	"time"
)

// ValidationError reports a bad or missing field in Params.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid params: %s %s", e.Field, e.Reason)
}

// URLParseError reports a URL that is not a syntactically valid absolute URL.
type URLParseError struct {
	URL string
	Err error
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *URLParseError) Unwrap() error {
	return e.Err
}

// UnsupportedSchemeError reports a URL scheme other than http or https.
type UnsupportedSchemeError struct {
	Scheme string
}

func (e *UnsupportedSchemeError) Error() string {
	return fmt.Sprintf("unsupported URL scheme: %s (only http and https are allowed)", e.Scheme)
}

// SerializationError reports a request body that could not be encoded as JSON.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize request body: %v", e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// TransportError reports a connection-level failure from the underlying
// transport. The message is prefixed with the capitalized scheme name.
type TransportError struct {
	Scheme Scheme
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Scheme.Title(), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the configured timeout elapsed before the call
// completed. The in-flight request has been aborted.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %dms", e.Timeout.Milliseconds())
}

// StatusError reports a response with a status code outside [200, 300).
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// BodyParseError reports a response body that is not valid JSON.
type BodyParseError struct {
	Err error
}

func (e *BodyParseError) Error() string {
	return fmt.Sprintf("failed to parse response body: %v", e.Err)
}

func (e *BodyParseError) Unwrap() error {
	return e.Err
}
