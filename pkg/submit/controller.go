// Package submit drives the submission lifecycle: validate, post, then
// navigate or alert. At most one submission is in flight per controller.
package submit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/question"
)

// DefaultErrorMessage is shown when the server rejects a submission.
const DefaultErrorMessage = "There was a problem submitting your answers. Please try again later."

// Intent selects where a successful submission leads.
type Intent string

const (
	IntentContinue Intent = "continue"
	IntentFinish   Intent = "finish"
)

// State is the controller's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Status summarises how a Submit call ended.
type Status int

const (
	// StatusIgnored means another submission was already in progress.
	StatusIgnored Status = iota
	// StatusBlocked means validation failed and nothing was sent.
	StatusBlocked
	// StatusSent means the server accepted the payload.
	StatusSent
	// StatusFailed means the transport reported an error.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusBlocked:
		return "blocked"
	case StatusSent:
		return "sent"
	case StatusFailed:
		return "failed"
	default:
		return "ignored"
	}
}

// Result describes a finished Submit call.
type Result struct {
	Status      Status
	Destination string
	AttemptID   string
	Payload     question.Payload
}

// Config holds the page's submission endpoints.
type Config struct {
	URL          string
	NextURL      string
	EndURL       string
	ErrorMessage string
	// ExtraBlock names a secondary form whose fields are merged into the
	// payload, overriding answers on name collisions.
	ExtraBlock string
}

// Source is the question collection being submitted.
type Source interface {
	Validate() bool
	Serialize() question.Payload
}

// Host is the part of the rendering layer the controller drives.
type Host interface {
	host.Feedback
	host.Navigator
	host.FormSource
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides attempt id generation.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Controller is the submission state machine.
type Controller struct {
	cfg       Config
	source    Source
	host      Host
	bus       *events.Bus
	transport Transport
	logger    *slog.Logger
	newID     func() string

	mu    sync.Mutex
	state State
}

// NewController wires a controller. transport must not be nil.
func NewController(cfg Config, source Source, h Host, bus *events.Bus, transport Transport, opts ...Option) *Controller {
	if cfg.ErrorMessage == "" {
		cfg.ErrorMessage = DefaultErrorMessage
	}
	c := &Controller{
		cfg:       cfg,
		source:    source,
		host:      h,
		bus:       bus,
		transport: transport,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submitting reports whether a submission is validating or in flight.
func (c *Controller) Submitting() bool {
	return c.State() != StateIdle
}

// Submit runs one submission attempt and blocks until it completes. Calls
// made while another attempt is active return StatusIgnored and change
// nothing.
func (c *Controller) Submit(ctx context.Context, intent Intent) (Result, error) {
	if !c.transition(StateIdle, StateValidating) {
		c.logger.Debug("submission ignored", slog.String("state", c.State().String()))
		return Result{Status: StatusIgnored}, nil
	}

	if !c.source.Validate() {
		c.setState(StateIdle)
		c.logger.Debug("submission blocked by validation")
		return Result{Status: StatusBlocked}, nil
	}

	c.setState(StateSubmitting)
	c.bus.Emit(events.TopicSubmitStart)
	c.host.SetProgress(true)
	defer func() {
		c.bus.Emit(events.TopicSubmitEnd)
		c.host.SetProgress(false)
		c.setState(StateIdle)
	}()

	payload := c.payload()
	req := Request{
		URL:       c.cfg.URL,
		Payload:   payload,
		Token:     c.host.Token(),
		AttemptID: c.newID(),
	}
	logger := c.logger.With(slog.String("attempt", req.AttemptID), slog.String("intent", string(intent)))
	logger.Info("submitting answers", slog.String("url", req.URL), slog.Int("fields", len(payload)))

	result := Result{AttemptID: req.AttemptID, Payload: payload}
	if err := c.transport.Send(ctx, req); err != nil {
		logger.Error("submission failed", slog.Any("error", err))
		c.host.Alert(c.cfg.ErrorMessage)
		result.Status = StatusFailed
		return result, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	result.Status = StatusSent
	result.Destination = c.destination(intent)
	logger.Info("submission accepted", slog.String("destination", result.Destination))
	if result.Destination != "" {
		c.host.Navigate(result.Destination)
	}
	return result, nil
}

func (c *Controller) payload() question.Payload {
	payload := c.source.Serialize()
	if c.cfg.ExtraBlock == "" {
		return payload
	}
	extra := c.host.Fields(c.cfg.ExtraBlock)
	fields := make([]question.Field, 0, len(extra))
	for _, field := range extra {
		fields = append(fields, question.Field{Name: field.Name, Value: field.Value})
	}
	return question.Merge(payload, fields...)
}

func (c *Controller) destination(intent Intent) string {
	if intent == IntentFinish && c.cfg.EndURL != "" {
		return c.cfg.EndURL
	}
	return c.cfg.NextURL
}

func (c *Controller) transition(from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return false
	}
	c.state = to
	return true
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
