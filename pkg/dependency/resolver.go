// Package dependency decides which question blocks are active. A dependent
// block is active while its controlling input exists on the page and is
// checked (and, when declared, its answer rule holds). Inactive blocks are
// concealed and their questions disabled; their values are left alone.
package dependency

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/visibility"
	"github.com/goliatone/go-saq/pkg/visibility/expr"
)

// Descriptor is a dependency resolved at initialisation time.
type Descriptor struct {
	// Block is the dependent block identifier.
	Block string
	// Input is the controlling input identifier. It may be empty when Rule
	// alone gates the block.
	Input string
	// Rule is an optional answer expression that must also hold.
	Rule string
	// Questions are the slugs of the questions inside Block.
	Questions []string
}

// Host is the part of the rendering layer the resolver needs.
type Host interface {
	host.Inputs
	host.Blocks
}

// Switch is what the resolver enables and disables; presenters satisfy it.
type Switch interface {
	Enable()
	Disable()
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithEvaluator overrides the rule evaluator.
func WithEvaluator(e visibility.Evaluator) Option {
	return func(r *Resolver) {
		if e != nil {
			r.evaluator = e
		}
	}
}

// WithAnswers supplies the answers rules are evaluated against.
func WithAnswers(fn func() map[string]string) Option {
	return func(r *Resolver) {
		r.answers = fn
	}
}

// WithLogger sets the logger used for rule failures and transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Resolver re-evaluates every descriptor after each answer change.
type Resolver struct {
	host        Host
	descriptors []Descriptor
	switches    map[string]Switch
	evaluator   visibility.Evaluator
	answers     func() map[string]string
	logger      *slog.Logger

	active map[string]bool
	unsub  func()
}

// New constructs a resolver. switches maps question slugs to the targets
// toggled when their block changes state; unknown slugs are skipped.
func New(h Host, descriptors []Descriptor, switches map[string]Switch, opts ...Option) *Resolver {
	r := &Resolver{
		host:        h,
		descriptors: append([]Descriptor(nil), descriptors...),
		switches:    switches,
		evaluator:   expr.New(),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		active:      make(map[string]bool, len(descriptors)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Bind re-runs Resolve on every inputs-changed notification.
func (r *Resolver) Bind(bus *events.Bus) {
	r.Close()
	r.unsub = bus.Subscribe(events.TopicInputsChanged, func(events.Event) {
		r.Resolve()
	})
}

// Close detaches the resolver from its bus.
func (r *Resolver) Close() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

// Descriptors returns the resolved dependency list.
func (r *Resolver) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// Active reports the last decision for block. The second result is false
// until the block has been resolved once.
func (r *Resolver) Active(block string) (active, known bool) {
	active, known = r.active[block]
	return active, known
}

// Resolve evaluates every descriptor until no decision changes. Rules read
// answers that depend on which questions are enabled, so a pass may flip a
// block declared earlier; the number of passes is capped at one more than
// the number of descriptors. Transitions are emitted once, for the settled
// decisions: a block's first decision is applied instantly, later changes
// are animated and unchanged decisions emit nothing.
func (r *Resolver) Resolve() {
	decisions := make(map[string]bool, len(r.descriptors))
	for pass := 0; pass <= len(r.descriptors); pass++ {
		changed := false
		for _, d := range r.descriptors {
			active := r.satisfied(d)
			if previous, seen := decisions[d.Block]; !seen || previous != active {
				changed = true
			}
			decisions[d.Block] = active
			r.toggle(d.Questions, active)
		}
		if !changed {
			break
		}
	}

	for _, d := range r.descriptors {
		active := decisions[d.Block]
		previous, known := r.active[d.Block]
		if known && previous == active {
			continue
		}
		transition := host.Instant
		if known {
			transition = host.Animated
		}
		if active {
			r.host.Show(d.Block, transition)
		} else {
			r.host.Hide(d.Block, transition)
		}
		r.active[d.Block] = active
		r.logger.Debug("dependency toggled",
			slog.String("block", d.Block),
			slog.Bool("active", active),
			slog.String("transition", transition.String()),
		)
	}
}

func (r *Resolver) toggle(questions []string, active bool) {
	for _, slug := range questions {
		target, ok := r.switches[slug]
		if !ok {
			continue
		}
		if active {
			target.Enable()
		} else {
			target.Disable()
		}
	}
}

func (r *Resolver) satisfied(d Descriptor) bool {
	switch {
	case d.Input != "":
		if !r.host.Exists(d.Input) || !r.host.Checked(d.Input) {
			return false
		}
	case d.Rule == "":
		return false
	}
	if d.Rule == "" {
		return true
	}

	ctx := visibility.Context{Checked: r.host.Checked}
	if r.answers != nil {
		ctx.Answers = r.answers()
	}
	ok, err := r.evaluator.Eval(d.Block, d.Rule, ctx)
	if err != nil {
		r.logger.Warn("dependency rule failed",
			slog.String("block", d.Block),
			slog.String("rule", d.Rule),
			slog.Any("error", err),
		)
		return false
	}
	return ok
}
