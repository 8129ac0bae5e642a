package events

import (
	"strings"
	"sync"
)

// Topic names a class of session events.
type Topic string

const (
	// TopicInputsChanged fires after any presenter updates its question value.
	TopicInputsChanged Topic = "inputs:changed"
	// TopicSubmitStart fires once a submission passed validation and is about
	// to be sent.
	TopicSubmitStart Topic = "submit:start"
	// TopicSubmitEnd fires when a submission completes, whatever the outcome.
	TopicSubmitEnd Topic = "submit:end"
	// TopicQuestionError carries a validation message for Event.Slug.
	TopicQuestionError Topic = "question:error"
	// TopicQuestionValid clears any validation message for Event.Slug.
	TopicQuestionValid Topic = "question:valid"
)

// Event is the payload delivered to handlers. Slug and Message are only set
// for question-scoped topics.
type Event struct {
	Topic   Topic
	Slug    string
	Message string
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events synchronously to subscribers in subscription order.
// Handlers may publish or subscribe re-entrantly; the handler list is copied
// before dispatch.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]subscription
	nextID   int
	closed   bool
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]subscription)}
}

// Subscribe registers handler for topic and returns a function that removes
// it. Subscribing to a closed bus is a no-op.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	if b == nil || handler == nil || strings.TrimSpace(string(topic)) == "" {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[topic]
	for idx, sub := range subs {
		if sub.id != id {
			continue
		}
		b.handlers[topic] = append(subs[:idx:idx], subs[idx+1:]...)
		if len(b.handlers[topic]) == 0 {
			delete(b.handlers, topic)
		}
		return
	}
}

// Publish delivers ev to every handler subscribed to ev.Topic and returns
// once all of them ran.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	subs := append([]subscription(nil), b.handlers[ev.Topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(ev)
	}
}

// Emit is shorthand for publishing a topic without question scope.
func (b *Bus) Emit(topic Topic) {
	b.Publish(Event{Topic: topic})
}

// subscribers reports how many handlers are registered for topic.
func (b *Bus) subscribers(topic Topic) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}

// Close drops every subscription. Later publishes are ignored.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[Topic][]subscription)
}
