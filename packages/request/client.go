package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// Do performs a single HTTP or HTTPS request described by params and returns
// either the parsed JSON body or, in stream mode, the live response body.
// Exactly one of result and error is non-nil. Each call binds its own
// disposable transport handle; there are no retries and no caller-triggered
// cancellation — only the configured timeout aborts an in-flight request.
func Do(p Params) (*Result, error) {
	opts, err := BuildOptions(p)
	if err != nil {
		return nil, err
	}
	return execute(opts)
}

// Get performs a buffered GET request.
func Get(url string, headers map[string]*string) (*Result, error) {
	return Do(Params{Method: "GET", URL: url, Headers: headers})
}

// Post performs a POST request with data as the JSON body.
func Post(url string, data map[string]any, headers map[string]*string) (*Result, error) {
	return Do(Params{Method: "POST", URL: url, Data: data, Headers: headers})
}

// Put performs a PUT request with data as the JSON body.
func Put(url string, data map[string]any, headers map[string]*string) (*Result, error) {
	return Do(Params{Method: "PUT", URL: url, Data: data, Headers: headers})
}

// Delete performs a buffered DELETE request.
func Delete(url string, headers map[string]*string) (*Result, error) {
	return Do(Params{Method: "DELETE", URL: url, Headers: headers})
}

func execute(opts *Options) (*Result, error) {
	transport := opts.Agent
	if transport == nil {
		t := &http.Transport{
			TLSClientConfig: opts.TLS,
		}
		if opts.DialContext != nil {
			t.DialContext = opts.DialContext
		}
		transport = t
	}

	// One network request per call: redirects are never followed, so a
	// 3xx response surfaces and rejects at the status gate below.
	client := &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	// The timeout timer is armed for the whole call and fires at most once.
	// The flag distinguishes a deliberate abort from a transport failure.
	ctx, cancel := context.WithCancel(context.Background())
	var timedOut atomic.Bool
	timer := time.AfterFunc(opts.Timeout, func() {
		timedOut.Store(true)
		cancel()
	})

	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL(), body)
	if err != nil {
		timer.Stop()
		cancel()
		return nil, &TransportError{Scheme: opts.Scheme, Err: err}
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	if opts.Auth != "" {
		user, pass, _ := strings.Cut(opts.Auth, ":")
		req.SetBasicAuth(user, pass)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		timer.Stop()
		cancel()
		if timedOut.Load() {
			return nil, &TimeoutError{Timeout: opts.Timeout}
		}
		return nil, &TransportError{Scheme: opts.Scheme, Err: err}
	}

	headers := make(map[string]string)
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	// Non-2xx rejects without reading the body.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		timer.Stop()
		_ = resp.Body.Close()
		cancel()
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if opts.ReturnStream {
		// Stream mode resolves at header receipt: the timeout disarms here
		// and the caller owns the unconsumed body. Closing the stream
		// releases the connection.
		timer.Stop()
		return &Result{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Headers:    headers,
			Stream:     &stream{body: resp.Body, cancel: cancel},
			Duration:   time.Since(start),
		}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	timer.Stop()
	cancel()
	duration := time.Since(start)

	if err != nil {
		if timedOut.Load() {
			return nil, &TimeoutError{Timeout: opts.Timeout}
		}
		return nil, &TransportError{Scheme: opts.Scheme, Err: err}
	}

	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, &BodyParseError{Err: err}
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Headers:    headers,
		Body:       raw,
		Value:      value,
		Duration:   duration,
	}, nil
}

// stream ties the lifetime of the per-call context to the response body so
// the transport handle is released when the caller closes the stream.
type stream struct {
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (s *stream) Read(p []byte) (int, error) {
	return s.body.Read(p)
}

func (s *stream) Close() error {
	err := s.body.Close()
	s.cancel()
	return err
}
