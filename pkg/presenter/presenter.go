// Package presenter translates raw widget state into canonical question
// answers. There is one presenter variant per widget family; each keeps its
// question in sync with the host and relays validation and submission
// signals back to the page.
package presenter

import (
	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/question"
)

// Host is the part of the rendering layer presenters talk to.
type Host interface {
	host.Inputs
	host.Feedback
}

// Choice binds an answer value to the input rendering it.
type Choice struct {
	Input string
	Value string
	Label string
	Group string
}

// Config carries everything a factory needs to build a presenter.
type Config struct {
	Slug     string
	Optional bool
	Choices  []Choice
	Widget   string
	Host     Host
	Bus      *events.Bus
}

// Presenter keeps one question in sync with its widgets.
type Presenter interface {
	Question() *question.Question
	// Refresh reads the widgets and stores the canonical value.
	Refresh()
	// ChangeValue refreshes and announces the change on the bus.
	ChangeValue()
	Enable()
	Disable()
	// Widgets lists the identifiers of the presenter's inputs.
	Widgets() []string
	// Close drops the presenter's bus subscriptions.
	Close()
}

// Offerer is implemented by presenters whose options can be selected
// programmatically by answer value.
type Offerer interface {
	Offers(value string) (inputID string, ok bool)
}

type base struct {
	q       *question.Question
	host    Host
	bus     *events.Bus
	widgets []string

	unsubs []func()
}

func newBase(cfg Config, kind question.Kind, widgets []string) base {
	return base{
		q:       question.New(cfg.Slug, kind, cfg.Optional),
		host:    cfg.Host,
		bus:     cfg.Bus,
		widgets: widgets,
	}
}

func (b *base) Question() *question.Question { return b.q }

func (b *base) Enable() { b.q.SetDisabled(false) }

func (b *base) Disable() { b.q.SetDisabled(true) }

func (b *base) Widgets() []string { return append([]string(nil), b.widgets...) }

func (b *base) notify() { b.bus.Emit(events.TopicInputsChanged) }

// bind wires the page-side reactions: inline validation feedback and input
// locking while a submission is in flight.
func (b *base) bind() {
	if b.bus == nil || b.host == nil {
		return
	}
	slug := b.q.Slug
	b.unsubs = append(b.unsubs,
		b.bus.Subscribe(events.TopicQuestionError, func(ev events.Event) {
			if ev.Slug == slug {
				b.host.ShowError(slug, ev.Message)
			}
		}),
		b.bus.Subscribe(events.TopicQuestionValid, func(ev events.Event) {
			if ev.Slug == slug {
				b.host.ClearError(slug)
			}
		}),
		b.bus.Subscribe(events.TopicSubmitStart, func(events.Event) {
			b.host.SetDisabled(b.widgets, true)
		}),
		b.bus.Subscribe(events.TopicSubmitEnd, func(events.Event) {
			b.host.SetDisabled(b.widgets, false)
		}),
	)
}

func (b *base) Close() {
	for _, unsub := range b.unsubs {
		unsub()
	}
	b.unsubs = nil
}

func choiceInputs(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, c := range choices {
		out[i] = c.Input
	}
	return out
}
