package survey

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/presenter"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/visibility"
)

// Option customises a Session.
type Option func(*Session)

// WithTransport replaces the HTTP transport used for submissions.
func WithTransport(t submit.Transport) Option {
	return func(s *Session) {
		if t != nil {
			s.transport = t
		}
	}
}

// WithHTTPClient sets the client of the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.client = client
	}
}

// WithBaseURL sets the page origin used by the default transport.
func WithBaseURL(base *url.URL) Option {
	return func(s *Session) {
		s.baseURL = base
	}
}

// WithPresenters overrides the presenter registry, typically to add custom
// question kinds.
func WithPresenters(reg *presenter.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.presenterReg = reg
		}
	}
}

// WithEvaluator overrides the dependency rule evaluator.
func WithEvaluator(e visibility.Evaluator) Option {
	return func(s *Session) {
		s.evaluator = e
	}
}

// WithBus supplies the event bus instead of allocating one. The session
// still closes it on Close.
func WithBus(bus *events.Bus) Option {
	return func(s *Session) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the logger shared by the session components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}
