package submit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/goliatone/go-saq/pkg/question"
)

// DefaultTokenHeader carries the anti-forgery token on same-origin requests.
const DefaultTokenHeader = "X-CSRFToken"

// Request is one submission attempt handed to a Transport.
type Request struct {
	URL       string
	Payload   question.Payload
	Token     string
	AttemptID string
}

// Transport delivers a submission. A nil error means the server accepted it.
type Transport interface {
	Send(ctx context.Context, req Request) error
}

// TransportFunc adapts a function into a Transport.
type TransportFunc func(ctx context.Context, req Request) error

// Send implements Transport.
func (fn TransportFunc) Send(ctx context.Context, req Request) error {
	return fn(ctx, req)
}

// HTTPTransport posts form-encoded payloads.
type HTTPTransport struct {
	client      *http.Client
	base        *url.URL
	tokenHeader string
}

// TransportOption customises an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithClient overrides the HTTP client.
func WithClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithBaseURL sets the page origin. Relative submit URLs resolve against it
// and absolute URLs sharing its scheme and host count as same-origin.
func WithBaseURL(base *url.URL) TransportOption {
	return func(t *HTTPTransport) {
		t.base = base
	}
}

// WithTokenHeader renames the anti-forgery header.
func WithTokenHeader(name string) TransportOption {
	return func(t *HTTPTransport) {
		if name = strings.TrimSpace(name); name != "" {
			t.tokenHeader = name
		}
	}
}

// NewHTTPTransport constructs a transport. Without WithClient it uses a client
// with a cookie jar so session and token cookies round-trip.
func NewHTTPTransport(opts ...TransportOption) (*HTTPTransport, error) {
	t := &HTTPTransport{tokenHeader: DefaultTokenHeader}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.client == nil {
		client, err := NewClient()
		if err != nil {
			return nil, err
		}
		t.client = client
	}
	return t, nil
}

// NewClient returns an HTTP client backed by a public-suffix aware cookie jar.
func NewClient() (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("submit: cookie jar: %w", err)
	}
	return &http.Client{Jar: jar, Timeout: 30 * time.Second}, nil
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req Request) error {
	target, err := t.resolve(req.URL)
	if err != nil {
		return err
	}

	body := strings.NewReader(req.Payload.Values().Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), body)
	if err != nil {
		return fmt.Errorf("submit: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if req.AttemptID != "" {
		httpReq.Header.Set("X-Request-ID", req.AttemptID)
	}
	if req.Token != "" && t.SameOrigin(req.URL) {
		httpReq.Header.Set(t.tokenHeader, req.Token)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("submit: post %s: %w", target, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return nil
}

// SameOrigin reports whether the token may be attached for raw. Relative URLs
// always qualify; absolute ones only when they match the base URL's scheme and
// host.
func (t *HTTPTransport) SameOrigin(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !u.IsAbs() && u.Host == "" {
		return true
	}
	if t.base == nil {
		return false
	}
	return strings.EqualFold(u.Scheme, t.base.Scheme) && strings.EqualFold(u.Host, t.base.Host)
}

func (t *HTTPTransport) resolve(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("submit: parse url %q: %w", raw, err)
	}
	if u.IsAbs() {
		return u, nil
	}
	if t.base == nil {
		return nil, fmt.Errorf("submit: relative url %q requires a base url", raw)
	}
	return t.base.ResolveReference(u), nil
}
