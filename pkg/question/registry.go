package question

import (
	"fmt"

	"github.com/goliatone/go-saq/pkg/events"
)

// Failure describes a question that did not pass PostValidate.
type Failure struct {
	Slug    string
	Message string
}

// Registry is the ordered set of questions on a page. Registration order
// drives validation signalling and serialisation order.
type Registry struct {
	bus       *events.Bus
	questions []*Question
	bySlug    map[string]*Question
}

// NewRegistry constructs an empty registry publishing validation signals on
// bus. A nil bus disables signalling.
func NewRegistry(bus *events.Bus) *Registry {
	return &Registry{
		bus:    bus,
		bySlug: make(map[string]*Question),
	}
}

// Register appends q. Slugs must be unique and non-empty.
func (r *Registry) Register(q *Question) error {
	if q == nil || q.Slug == "" {
		return ErrEmptySlug
	}
	if _, exists := r.bySlug[q.Slug]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateSlug, q.Slug)
	}
	r.bySlug[q.Slug] = q
	r.questions = append(r.questions, q)
	return nil
}

// Get looks a question up by slug.
func (r *Registry) Get(slug string) (*Question, bool) {
	q, ok := r.bySlug[slug]
	return q, ok
}

// Questions returns the questions in registration order.
func (r *Registry) Questions() []*Question {
	return append([]*Question(nil), r.questions...)
}

// Len reports the number of registered questions.
func (r *Registry) Len() int {
	return len(r.questions)
}

// Failures runs PostValidate on every question without raising signals.
func (r *Registry) Failures() []Failure {
	var out []Failure
	for _, q := range r.questions {
		if msg, failed := q.PostValidate(); failed {
			out = append(out, Failure{Slug: q.Slug, Message: msg})
		}
	}
	return out
}

// Validate checks every question, publishing an error signal for each
// failure and a valid signal for each pass. It never stops early and never
// mutates values. It reports whether all questions passed.
func (r *Registry) Validate() bool {
	passed := true
	for _, q := range r.questions {
		msg, failed := q.PostValidate()
		if failed {
			passed = false
			r.bus.Publish(events.Event{Topic: events.TopicQuestionError, Slug: q.Slug, Message: msg})
			continue
		}
		r.bus.Publish(events.Event{Topic: events.TopicQuestionValid, Slug: q.Slug})
	}
	return passed
}

// Serialize returns slug/value pairs in registration order. Empty answers
// and disabled questions are left out.
func (r *Registry) Serialize() Payload {
	out := make(Payload, 0, len(r.questions))
	for _, q := range r.questions {
		if q.disabled || IsEmpty(q.value) {
			continue
		}
		out = append(out, Field{Name: q.Slug, Value: q.value.String()})
	}
	return out
}
