package request

import (
	"errors"
	neturl "net/url"
	"strconv"
	"strings"
)

var errMissingHost = errors.New("URL must have a host")

// Scheme identifies the transport variant for a request.
type Scheme int

const (
	SchemeHTTP Scheme = iota
	SchemeHTTPS
)

func (s Scheme) String() string {
	if s == SchemeHTTPS {
		return "https"
	}
	return "http"
}

// Title returns the scheme name with the first letter capitalized, used as
// the prefix in transport error messages.
func (s Scheme) Title() string {
	if s == SchemeHTTPS {
		return "Https"
	}
	return "Http"
}

// DefaultPort returns the port implied by the scheme when the URL carries none.
func (s Scheme) DefaultPort() int {
	if s == SchemeHTTPS {
		return 443
	}
	return 80
}

// ResolvedURL is the decomposed form of a request URL. Path carries the
// path, query, and fragment joined back together.
type ResolvedURL struct {
	Scheme Scheme
	Host   string
	Port   int
	Path   string
}

// ResolveURL parses a raw URL into its scheme, host, port, and path parts.
// An explicit integer port on the URL wins; otherwise the scheme's default
// port is used.
func ResolveURL(rawURL string) (*ResolvedURL, error) {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return nil, &URLParseError{URL: rawURL, Err: err}
	}

	var scheme Scheme
	switch strings.ToLower(u.Scheme) {
	case "http":
		scheme = SchemeHTTP
	case "https":
		scheme = SchemeHTTPS
	default:
		return nil, &UnsupportedSchemeError{Scheme: u.Scheme}
	}

	if u.Hostname() == "" {
		return nil, &URLParseError{URL: rawURL, Err: errMissingHost}
	}

	port := scheme.DefaultPort()
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	if u.Fragment != "" {
		path += "#" + u.EscapedFragment()
	}

	return &ResolvedURL{
		Scheme: scheme,
		Host:   u.Hostname(),
		Port:   port,
		Path:   path,
	}, nil
}
