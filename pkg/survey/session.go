// Package survey wires one page session: presenters, the question registry,
// the dependency resolver and the submission controller, all sharing a
// single event bus built from a survey definition.
package survey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/goliatone/go-saq/pkg/definition"
	"github.com/goliatone/go-saq/pkg/dependency"
	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/presenter"
	"github.com/goliatone/go-saq/pkg/question"
	"github.com/goliatone/go-saq/pkg/scoring"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/visibility"
)

// ErrConflictingDependency is returned when questions sharing a block
// declare different dependencies.
var ErrConflictingDependency = errors.New("survey: conflicting dependencies in block")

// Session is a page-scoped survey instance.
type Session struct {
	def  definition.Survey
	host host.Host

	bus          *events.Bus
	registry     *question.Registry
	presenterReg *presenter.Registry
	presenters   []presenter.Presenter
	bySlug       map[string]presenter.Presenter
	resolver     *dependency.Resolver
	controller   *submit.Controller

	transport submit.Transport
	client    *http.Client
	baseURL   *url.URL
	evaluator visibility.Evaluator
	logger    *slog.Logger
}

// New builds a session for def rendered on h. Call Start once the page is
// ready.
func New(def definition.Survey, h host.Host, opts ...Option) (*Session, error) {
	if h == nil {
		return nil, errors.New("survey: host is required")
	}
	if err := definition.Validate(def); err != nil {
		return nil, err
	}
	s := &Session{
		def:          def,
		host:         h,
		bus:          events.NewBus(),
		presenterReg: presenter.NewRegistry(),
		bySlug:       make(map[string]presenter.Presenter, len(def.Questions)),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.logger = s.logger.With(slog.String("survey", def.ID))
	s.registry = question.NewRegistry(s.bus)

	if err := s.buildPresenters(); err != nil {
		s.Close()
		return nil, err
	}

	descriptors, err := Descriptors(def)
	if err != nil {
		s.Close()
		return nil, err
	}
	switches := make(map[string]dependency.Switch, len(s.bySlug))
	for slug, p := range s.bySlug {
		switches[slug] = p
	}
	resolverOpts := []dependency.Option{
		dependency.WithAnswers(s.answers),
		dependency.WithLogger(s.logger),
	}
	if s.evaluator != nil {
		resolverOpts = append(resolverOpts, dependency.WithEvaluator(s.evaluator))
	}
	s.resolver = dependency.New(h, descriptors, switches, resolverOpts...)
	s.resolver.Bind(s.bus)

	if s.transport == nil {
		transport, err := submit.NewHTTPTransport(submit.WithClient(s.client), submit.WithBaseURL(s.baseURL))
		if err != nil {
			s.Close()
			return nil, err
		}
		s.transport = transport
	}
	cfg := def.Submit
	s.controller = submit.NewController(submit.Config{
		URL:          cfg.URL,
		NextURL:      cfg.NextURL,
		EndURL:       cfg.EndURL,
		ErrorMessage: cfg.ErrorMessage,
		ExtraBlock:   cfg.ExtraBlock,
	}, s.registry, h, s.bus, s.transport, submit.WithLogger(s.logger))

	return s, nil
}

func (s *Session) buildPresenters() error {
	for _, q := range s.def.Questions {
		choices := make([]presenter.Choice, 0, len(q.Options))
		for _, opt := range q.Options {
			choices = append(choices, presenter.Choice{
				Input: q.InputID(opt),
				Value: opt.Value,
				Label: opt.Label,
				Group: opt.Group,
			})
		}
		p, err := s.presenterReg.New(q.Kind, presenter.Config{
			Slug:     q.Slug,
			Optional: q.Optional,
			Choices:  choices,
			Widget:   q.WidgetID(),
			Host:     s.host,
			Bus:      s.bus,
		})
		if err != nil {
			return fmt.Errorf("survey: question %q: %w", q.Slug, err)
		}
		if err := s.registry.Register(p.Question()); err != nil {
			p.Close()
			return err
		}
		s.presenters = append(s.presenters, p)
		s.bySlug[q.Slug] = p
	}
	return nil
}

// Descriptors compiles the dependency declarations of def, one per
// dependent block. Every question rendered in a dependent block is gated
// with it.
func Descriptors(def definition.Survey) ([]dependency.Descriptor, error) {
	members := make(map[string][]string)
	for _, q := range def.Questions {
		members[q.BlockID()] = append(members[q.BlockID()], q.Slug)
	}

	var out []dependency.Descriptor
	index := make(map[string]int)
	for _, q := range def.Questions {
		if q.DependsOn == nil {
			continue
		}
		d := dependency.Descriptor{
			Block:     q.BlockID(),
			Input:     def.ControllingInput(*q.DependsOn),
			Rule:      q.DependsOn.Rule,
			Questions: members[q.BlockID()],
		}
		if i, ok := index[d.Block]; ok {
			if out[i].Input != d.Input || out[i].Rule != d.Rule {
				return nil, fmt.Errorf("%w: %s", ErrConflictingDependency, d.Block)
			}
			continue
		}
		index[d.Block] = len(out)
		out = append(out, d)
	}
	return out, nil
}

// Start reads the initial widget state and applies the first dependency
// pass.
func (s *Session) Start() {
	for _, p := range s.presenters {
		p.Refresh()
	}
	s.bus.Emit(events.TopicInputsChanged)
}

// InputChanged forwards a widget change for question slug.
func (s *Session) InputChanged(slug string) error {
	p, ok := s.bySlug[slug]
	if !ok {
		return fmt.Errorf("%w: %s", question.ErrUnknownQuestion, slug)
	}
	p.ChangeValue()
	return nil
}

// Submit validates and posts the answers.
func (s *Session) Submit(ctx context.Context, intent submit.Intent) (submit.Result, error) {
	return s.controller.Submit(ctx, intent)
}

// Submitting reports whether a submission is in progress.
func (s *Session) Submitting() bool {
	return s.controller.Submitting()
}

// MarkAnswers selects value on every single-choice question offering it,
// then announces the change once and scrolls to the navigation anchor. It
// returns the number of questions marked.
func (s *Session) MarkAnswers(value string) int {
	marked := 0
	for _, p := range s.presenters {
		offerer, ok := p.(presenter.Offerer)
		if !ok {
			continue
		}
		input, ok := offerer.Offers(value)
		if !ok {
			continue
		}
		s.host.Check(input)
		p.Refresh()
		marked++
	}
	s.bus.Emit(events.TopicInputsChanged)
	if anchor := s.def.Submit.NavAnchor; anchor != "" {
		s.host.ScrollTo(anchor)
	}
	s.logger.Debug("bulk answers marked", slog.String("value", value), slog.Int("count", marked))
	return marked
}

// Back leaves for the previous page without validating. It does nothing
// while a submission is in flight or when no back URL is configured.
func (s *Session) Back() bool {
	if s.def.Submit.BackURL == "" || s.controller.Submitting() {
		return false
	}
	s.host.Navigate(s.def.Submit.BackURL)
	return true
}

// Score totals the current answers. Only enabled, answered questions count,
// matching what a submission would send.
func (s *Session) Score() scoring.Report {
	return scoring.Evaluate(s.def, s.answers())
}

// Definition returns the survey the session was built from.
func (s *Session) Definition() definition.Survey { return s.def }

// Registry exposes the question registry.
func (s *Session) Registry() *question.Registry { return s.registry }

// Presenter returns the presenter of slug.
func (s *Session) Presenter(slug string) (presenter.Presenter, bool) {
	p, ok := s.bySlug[slug]
	return p, ok
}

// Resolver exposes the dependency resolver.
func (s *Session) Resolver() *dependency.Resolver { return s.resolver }

// Bus exposes the session event bus.
func (s *Session) Bus() *events.Bus { return s.bus }

// Close tears the session down; the bus is closed with it.
func (s *Session) Close() {
	if s.resolver != nil {
		s.resolver.Close()
	}
	for _, p := range s.presenters {
		p.Close()
	}
	s.bus.Close()
}

func (s *Session) answers() map[string]string {
	return s.registry.Serialize().Map()
}
