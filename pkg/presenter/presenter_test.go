package presenter

import (
	"errors"
	"testing"

	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host/memhost"
	"github.com/goliatone/go-saq/pkg/question"
)

func colourChoices() []Choice {
	return []Choice{
		{Input: "saq-colour-red", Value: "red"},
		{Input: "saq-colour-green", Value: "green"},
		{Input: "saq-colour-blue", Value: "blue"},
	}
}

func TestSingleChoiceRefresh(t *testing.T) {
	t.Parallel()

	page := memhost.New()
	for _, c := range colourChoices() {
		page.AddRadio("colour", c.Input, c.Value)
	}
	p, err := NewSingleChoice(Config{Slug: "colour", Choices: colourChoices(), Host: page})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	p.Refresh()
	if !question.IsEmpty(p.Question().Value()) {
		t.Fatalf("expected empty value with nothing checked")
	}

	_ = page.Click("saq-colour-green")
	p.Refresh()
	if got := p.Question().Value().String(); got != "green" {
		t.Fatalf("expected green, got %q", got)
	}
	if p.Question().Kind != question.KindSingleChoice {
		t.Fatalf("unexpected kind %q", p.Question().Kind)
	}

	input, ok := p.(Offerer).Offers("blue")
	if !ok || input != "saq-colour-blue" {
		t.Fatalf("Offers returned %q %v", input, ok)
	}
	if _, ok := p.(Offerer).Offers("purple"); ok {
		t.Fatalf("did not expect purple to be offered")
	}
}

func TestMultiChoiceJoinsInPageOrder(t *testing.T) {
	t.Parallel()

	page := memhost.New()
	for _, c := range colourChoices() {
		page.AddCheckbox(c.Input, c.Value)
	}
	p, _ := NewMultiChoice(Config{Slug: "colours", Choices: colourChoices(), Host: page})

	p.Refresh()
	if v := p.Question().Value(); !v.IsSet() || v.String() != "" {
		t.Fatalf("expected explicit empty string, got %+v", v)
	}

	_ = page.Click("saq-colour-blue")
	_ = page.Click("saq-colour-red")
	p.Refresh()
	if got := p.Question().Value().String(); got != "red,blue" {
		t.Fatalf("expected page order red,blue got %q", got)
	}
}

func TestDropDownAndFreeText(t *testing.T) {
	t.Parallel()

	page := memhost.New()
	page.AddSelect("saq-count", "")
	page.AddText("saq-notes", "")

	dd, _ := NewDropDown(Config{Slug: "count", Widget: "saq-count", Host: page})
	ft, _ := NewFreeText(Config{Slug: "notes", Widget: "saq-notes", Host: page})

	_ = page.Choose("saq-count", "6-20")
	_ = page.Type("saq-notes", "  spaced  ")
	dd.Refresh()
	ft.Refresh()

	if got := dd.Question().Value().String(); got != "6-20" {
		t.Fatalf("dropdown value %q", got)
	}
	if got := ft.Question().Value().String(); got != "  spaced  " {
		t.Fatalf("free text should be verbatim, got %q", got)
	}
}

func TestChangeValuePublishes(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	page := memhost.New()
	page.AddText("saq-notes", "hi")
	changes := 0
	bus.Subscribe(events.TopicInputsChanged, func(events.Event) { changes++ })

	p, _ := NewFreeText(Config{Slug: "notes", Widget: "saq-notes", Host: page, Bus: bus})
	p.Refresh()
	if changes != 0 {
		t.Fatalf("Refresh must not publish")
	}
	p.ChangeValue()
	if changes != 1 {
		t.Fatalf("expected one change notification, got %d", changes)
	}
}

func TestEnableDisableKeepsValue(t *testing.T) {
	t.Parallel()

	page := memhost.New()
	page.AddText("w", "kept")
	p, _ := NewFreeText(Config{Slug: "notes", Widget: "w", Host: page})
	p.Refresh()
	p.Disable()
	if !p.Question().Disabled() {
		t.Fatalf("expected disabled")
	}
	p.Enable()
	if p.Question().Disabled() || p.Question().Value().String() != "kept" {
		t.Fatalf("unexpected state after enable")
	}
}

func TestPresenterReactsToBus(t *testing.T) {
	t.Parallel()

	bus := events.NewBus()
	page := memhost.New()
	for _, c := range colourChoices() {
		page.AddRadio("colour", c.Input, c.Value)
	}
	p, _ := NewSingleChoice(Config{Slug: "colour", Choices: colourChoices(), Host: page, Bus: bus})

	bus.Publish(events.Event{Topic: events.TopicQuestionError, Slug: "other", Message: "nope"})
	if _, ok := page.Error("colour"); ok {
		t.Fatalf("error for another slug leaked")
	}
	bus.Publish(events.Event{Topic: events.TopicQuestionError, Slug: "colour", Message: question.RequiredMessage})
	if msg, ok := page.Error("colour"); !ok || msg != question.RequiredMessage {
		t.Fatalf("expected error shown, got %q %v", msg, ok)
	}
	bus.Publish(events.Event{Topic: events.TopicQuestionValid, Slug: "colour"})
	if _, ok := page.Error("colour"); ok {
		t.Fatalf("expected error cleared")
	}

	bus.Emit(events.TopicSubmitStart)
	for _, id := range p.Widgets() {
		if !page.IsDisabled(id) {
			t.Fatalf("expected %s disabled during submit", id)
		}
	}
	bus.Emit(events.TopicSubmitEnd)
	if page.DisabledCount() != 0 {
		t.Fatalf("expected inputs re-enabled")
	}

	p.Close()
	bus.Emit(events.TopicSubmitStart)
	if page.DisabledCount() != 0 {
		t.Fatalf("closed presenter still reacting")
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	page := memhost.New()
	page.AddSelect("saq-count", "3")

	p, err := reg.New(" Grouped-DropDown ", Config{Slug: "count", Widget: "saq-count", Host: page})
	if err != nil {
		t.Fatalf("new grouped dropdown: %v", err)
	}
	if _, ok := p.(*DropDown); !ok {
		t.Fatalf("expected grouped drop-down to use DropDown, got %T", p)
	}

	if _, err := reg.New("slider", Config{Slug: "x"}); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if err := reg.Alias("slider", "freetext"); err != nil {
		t.Fatalf("alias: %v", err)
	}
	if _, err := reg.New("slider", Config{Slug: "x", Widget: "w", Host: page}); err != nil {
		t.Fatalf("aliased kind: %v", err)
	}
	if err := reg.Alias("x", "nope"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind for alias target, got %v", err)
	}
	if _, err := reg.New("single", Config{}); err == nil {
		t.Fatalf("expected error for empty slug")
	}
}
