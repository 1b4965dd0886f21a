package request

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the timeout applied when Params.Timeout is zero.
	DefaultTimeout = 3000 * time.Millisecond
)

// Default headers applied to every request unless suppressed by the caller.
const (
	defaultAccept      = "application/json"
	defaultContentType = "application/json"
)

// allowedMethods is the set of verbs accepted by Validate, matched
// case-insensitively.
var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
}

// DialFunc establishes the underlying connection for a request, replacing
// the transport's default dialer.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// Params describes a single HTTP call. The zero value of every optional
// field means "use the default"; pointer-valued header entries distinguish
// absence from an explicit nil, which suppresses the matching default header.
type Params struct {
	// URL is the absolute target URL. Required; scheme must be http or https.
	URL string

	// Method is one of GET, POST, PUT, DELETE (case-insensitive).
	// Defaults to GET.
	Method string

	// Headers is merged over the default Accept and Content-Type headers.
	// An entry with a nil value removes that header from the outgoing set,
	// defaults included.
	Headers map[string]*string

	// Data is JSON-serialized and sent as the request body when the
	// resolved method is not GET. Ignored for GET requests.
	Data map[string]any

	// Timeout bounds the whole call. Defaults to DefaultTimeout.
	Timeout time.Duration

	// ReturnStream resolves the call with the live response body instead
	// of a parsed JSON value. The caller owns the stream.
	ReturnStream bool

	// Auth is forwarded as basic authentication in "user:pass" form.
	Auth string

	// Agent replaces the transport used for the call.
	Agent http.RoundTripper

	// DialContext replaces the connection factory of the default transport.
	// Ignored when Agent is set.
	DialContext DialFunc

	// TLS material, honored only when the resolved scheme is https.
	CA   string
	Cert string
	Key  string

	// RejectUnauthorized controls server certificate verification for
	// https requests. Nil means verify.
	RejectUnauthorized *bool
}

// Validate checks Params for the failures that the type system cannot rule
// out. It is a pure check with no side effects.
func (p Params) Validate() error {
	if strings.TrimSpace(p.URL) == "" {
		return &ValidationError{Field: "url", Reason: "is required and must be a non-empty string"}
	}

	if p.Method != "" && !allowedMethods[strings.ToUpper(p.Method)] {
		return &ValidationError{Field: "method", Reason: "must be one of GET, POST, PUT, DELETE, got " + p.Method}
	}

	if p.Timeout < 0 {
		return &ValidationError{Field: "timeout", Reason: "must not be negative"}
	}

	if p.Cert != "" && p.Key == "" {
		return &ValidationError{Field: "key", Reason: "is required when cert is set"}
	}
	if p.Key != "" && p.Cert == "" {
		return &ValidationError{Field: "cert", Reason: "is required when key is set"}
	}

	return nil
}

// resolvedMethod returns the upper-cased method, defaulting to GET.
func (p Params) resolvedMethod() string {
	if p.Method == "" {
		return "GET"
	}
	return strings.ToUpper(p.Method)
}

// resolvedTimeout returns the timeout, defaulting to DefaultTimeout.
func (p Params) resolvedTimeout() time.Duration {
	if p.Timeout == 0 {
		return DefaultTimeout
	}
	return p.Timeout
}

// Header sets a header value on a copy-safe map and returns the params for
// chaining.
func (p *Params) Header(key, value string) *Params {
	if p.Headers == nil {
		p.Headers = make(map[string]*string)
	}
	p.Headers[key] = &value
	return p
}

// SuppressHeader marks a header for removal, which drops the matching
// default header from the outgoing set.
func (p *Params) SuppressHeader(key string) *Params {
	if p.Headers == nil {
		p.Headers = make(map[string]*string)
	}
	p.Headers[key] = nil
	return p
}
