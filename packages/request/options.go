package request

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Options is the fully-resolved form of Params: URL parts split out, headers
// merged and nil-free, body serialized, TLS material gated on the scheme.
// Options are built once per call and never mutated afterwards.
type Options struct {
	Scheme Scheme
	Host   string
	Port   int
	Path   string

	Method  string
	Headers map[string]string
	Body    []byte

	Timeout      time.Duration
	ReturnStream bool

	Auth        string
	Agent       http.RoundTripper
	DialContext DialFunc

	// TLS is non-nil only when Scheme is SchemeHTTPS and carries the
	// parsed client/server certificate configuration.
	TLS *tls.Config
}

// BuildOptions validates params, resolves the URL, and derives the
// transport options for a single call.
func BuildOptions(p Params) (*Options, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	resolved, err := ResolveURL(p.URL)
	if err != nil {
		return nil, err
	}

	opts := &Options{
		Scheme:       resolved.Scheme,
		Host:         resolved.Host,
		Port:         resolved.Port,
		Path:         resolved.Path,
		Method:       p.resolvedMethod(),
		Headers:      mergeHeaders(p.Headers),
		Timeout:      p.resolvedTimeout(),
		ReturnStream: p.ReturnStream,
		Auth:         p.Auth,
		Agent:        p.Agent,
		DialContext:  p.DialContext,
	}

	// Data is sent only for non-GET requests; for GET it is silently
	// ignored even when present.
	if len(p.Data) > 0 && opts.Method != "GET" {
		body, err := json.Marshal(p.Data)
		if err != nil {
			return nil, &SerializationError{Err: err}
		}
		opts.Body = body
	}

	// TLS fields are honored only for https URLs and dropped otherwise.
	if resolved.Scheme == SchemeHTTPS {
		tlsConfig, err := buildTLSConfig(p)
		if err != nil {
			return nil, err
		}
		opts.TLS = tlsConfig
	}

	return opts, nil
}

// Address returns the host:port the request connects to.
func (o *Options) Address() string {
	return fmt.Sprintf("%s:%d", o.Host, o.Port)
}

// URL reassembles the resolved request URL.
func (o *Options) URL() string {
	return fmt.Sprintf("%s://%s:%d%s", o.Scheme, o.Host, o.Port, o.Path)
}

// mergeHeaders starts from the two JSON defaults, overlays the caller's
// entries, and drops every key whose final value is nil. A caller therefore
// suppresses a default header by setting it to an explicit nil.
func mergeHeaders(headers map[string]*string) map[string]string {
	merged := map[string]string{
		"Accept":       defaultAccept,
		"Content-Type": defaultContentType,
	}

	for k, v := range headers {
		if v == nil {
			delete(merged, k)
			continue
		}
		merged[k] = *v
	}

	return merged
}

func buildTLSConfig(p Params) (*tls.Config, error) {
	insecure := p.RejectUnauthorized != nil && !*p.RejectUnauthorized

	if p.CA == "" && p.Cert == "" && !insecure {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: insecure,
	}

	if p.CA != "" {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM([]byte(p.CA)) {
			return nil, &ValidationError{Field: "ca", Reason: "must be PEM-encoded certificate data"}
		}
		cfg.RootCAs = pool
	}

	if p.Cert != "" {
		cert, err := tls.X509KeyPair([]byte(p.Cert), []byte(p.Key))
		if err != nil {
			return nil, &ValidationError{Field: "cert", Reason: fmt.Sprintf("must be a valid PEM key pair: %v", err)}
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	return cfg, nil
}
