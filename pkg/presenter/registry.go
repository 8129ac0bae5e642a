package presenter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Built-in kind names.
const (
	KindSingleChoice    = "single"
	KindMultiChoice     = "multi"
	KindDropDown        = "dropdown"
	KindGroupedDropDown = "grouped-dropdown"
	KindFreeText        = "freetext"
)

// ErrUnknownKind is returned when no factory is registered for a kind.
var ErrUnknownKind = errors.New("presenter: unknown kind")

// Factory builds a presenter from its configuration.
type Factory func(cfg Config) (Presenter, error)

// Registry maps question kinds to presenter factories. The latest
// registration for a kind wins.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry with the built-in variants registered.
// Grouped drop-downs share the drop-down presenter; grouping only affects
// how options are displayed.
func NewRegistry() *Registry {
	reg := &Registry{factories: make(map[string]Factory)}
	reg.Register(KindSingleChoice, NewSingleChoice)
	reg.Register(KindMultiChoice, NewMultiChoice)
	reg.Register(KindDropDown, NewDropDown)
	reg.Register(KindGroupedDropDown, NewDropDown)
	reg.Register(KindFreeText, NewFreeText)
	return reg
}

// Register installs factory under kind. Empty kinds and nil factories are
// ignored.
func (r *Registry) Register(kind string, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	key := normaliseKind(kind)
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[key] = factory
}

// Alias makes alias resolve to the factory currently registered for kind.
func (r *Registry) Alias(alias, kind string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	factory, ok := r.factories[normaliseKind(kind)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	key := normaliseKind(alias)
	if key == "" {
		return errors.New("presenter: alias is empty")
	}
	r.factories[key] = factory
	return nil
}

// New builds a presenter for kind.
func (r *Registry) New(kind string, cfg Config) (Presenter, error) {
	r.mu.RLock()
	factory, ok := r.factories[normaliseKind(kind)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if strings.TrimSpace(cfg.Slug) == "" {
		return nil, errors.New("presenter: slug is required")
	}
	return factory(cfg)
}

// Kinds lists the registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

func normaliseKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}
