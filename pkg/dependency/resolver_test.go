package dependency

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-saq/pkg/events"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/host/memhost"
	"github.com/goliatone/go-saq/pkg/visibility"
)

type stubSwitch struct {
	disabled bool
	calls    int
}

func (s *stubSwitch) Enable()  { s.disabled = false; s.calls++ }
func (s *stubSwitch) Disable() { s.disabled = true; s.calls++ }

func newPage() *memhost.Page {
	page := memhost.New()
	page.AddRadio("a", "saq-a-yes", "yes")
	page.AddRadio("a", "saq-a-no", "no")
	page.AddBlock("saq-block-b", false)
	return page
}

func TestResolveStates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		input  string
		click  string
		active bool
	}{
		{name: "missing input", input: "saq-ghost-yes", click: "saq-a-yes", active: false},
		{name: "unchecked", input: "saq-a-yes", click: "saq-a-no", active: false},
		{name: "nothing checked", input: "saq-a-yes", active: false},
		{name: "checked", input: "saq-a-yes", click: "saq-a-yes", active: true},
	}

	for _, tc := range cases {
		page := newPage()
		if tc.click != "" {
			_ = page.Click(tc.click)
		}
		b := &stubSwitch{}
		r := New(page, []Descriptor{{Block: "saq-block-b", Input: tc.input, Questions: []string{"b"}}},
			map[string]Switch{"b": b})
		r.Resolve()

		if page.Visible("saq-block-b") != tc.active {
			t.Fatalf("%s: visible=%v want %v", tc.name, page.Visible("saq-block-b"), tc.active)
		}
		if b.disabled == tc.active {
			t.Fatalf("%s: disabled=%v with active=%v", tc.name, b.disabled, tc.active)
		}
		if active, known := r.Active("saq-block-b"); !known || active != tc.active {
			t.Fatalf("%s: Active()=%v,%v", tc.name, active, known)
		}
	}
}

func TestResolveTransitionsAndIdempotence(t *testing.T) {
	t.Parallel()

	page := newPage()
	b := &stubSwitch{}
	r := New(page, []Descriptor{{Block: "saq-block-b", Input: "saq-a-yes", Questions: []string{"b"}}},
		map[string]Switch{"b": b})

	r.Resolve()
	r.Resolve()
	_ = page.Click("saq-a-yes")
	r.Resolve()
	r.Resolve()
	_ = page.Click("saq-a-no")
	r.Resolve()

	want := []memhost.Change{
		{Block: "saq-block-b", Visible: false, Transition: host.Instant},
		{Block: "saq-block-b", Visible: true, Transition: host.Animated},
		{Block: "saq-block-b", Visible: false, Transition: host.Animated},
	}
	if diff := cmp.Diff(want, page.Changes()); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
	if !b.disabled {
		t.Fatalf("expected b disabled after switching to no")
	}
}

func TestResolveRemovedInput(t *testing.T) {
	t.Parallel()

	page := newPage()
	_ = page.Click("saq-a-yes")
	b := &stubSwitch{}
	r := New(page, []Descriptor{{Block: "saq-block-b", Input: "saq-a-yes", Questions: []string{"b"}}},
		map[string]Switch{"b": b})
	r.Resolve()
	if b.disabled {
		t.Fatalf("expected enabled while input checked")
	}

	page.Remove("saq-a-yes")
	r.Resolve()
	if !b.disabled || page.Visible("saq-block-b") {
		t.Fatalf("expected removed controlling input to deactivate the block")
	}
}

func TestResolveRules(t *testing.T) {
	t.Parallel()

	page := newPage()
	_ = page.Click("saq-a-yes")
	answers := map[string]string{"topics": "cloud"}
	b := &stubSwitch{}
	c := &stubSwitch{}
	page.AddBlock("saq-block-c", false)

	r := New(page, []Descriptor{
		{Block: "saq-block-b", Input: "saq-a-yes", Rule: `topics has "cloud"`, Questions: []string{"b"}},
		{Block: "saq-block-c", Rule: `topics has "network"`, Questions: []string{"c"}},
	}, map[string]Switch{"b": b, "c": c}, WithAnswers(func() map[string]string { return answers }))

	r.Resolve()
	if b.disabled || !c.disabled {
		t.Fatalf("expected b active and c inactive, got b=%v c=%v", !b.disabled, !c.disabled)
	}

	answers = map[string]string{"topics": "network"}
	r.Resolve()
	if !b.disabled || c.disabled {
		t.Fatalf("expected b inactive and c active after answers changed")
	}
}

func TestResolveRuleErrorIsUnsatisfied(t *testing.T) {
	t.Parallel()

	page := newPage()
	_ = page.Click("saq-a-yes")
	b := &stubSwitch{}
	failing := visibility.EvaluatorFunc(func(string, string, visibility.Context) (bool, error) {
		return true, errors.New("boom")
	})
	r := New(page, []Descriptor{{Block: "saq-block-b", Input: "saq-a-yes", Rule: "anything", Questions: []string{"b"}}},
		map[string]Switch{"b": b}, WithEvaluator(failing))
	r.Resolve()

	if !b.disabled {
		t.Fatalf("expected evaluation error to leave block inactive")
	}
}

func TestResolveWithoutInputOrRule(t *testing.T) {
	t.Parallel()

	page := newPage()
	b := &stubSwitch{}
	r := New(page, []Descriptor{{Block: "saq-block-b", Questions: []string{"b", "unknown"}}}, map[string]Switch{"b": b})
	r.Resolve()
	if !b.disabled {
		t.Fatalf("expected descriptor without input or rule to be unsatisfied")
	}
}

func TestBindRunsOnInputsChanged(t *testing.T) {
	t.Parallel()

	page := newPage()
	bus := events.NewBus()
	b := &stubSwitch{}
	r := New(page, []Descriptor{{Block: "saq-block-b", Input: "saq-a-yes", Questions: []string{"b"}}},
		map[string]Switch{"b": b})
	r.Bind(bus)

	_ = page.Click("saq-a-yes")
	bus.Emit(events.TopicInputsChanged)
	if !page.Visible("saq-block-b") {
		t.Fatalf("expected block revealed after notification")
	}

	r.Close()
	_ = page.Click("saq-a-no")
	bus.Emit(events.TopicInputsChanged)
	if !page.Visible("saq-block-b") {
		t.Fatalf("closed resolver should not react")
	}
}

func TestResolveSettlesRulesDeclaredBeforeTheirTargets(t *testing.T) {
	t.Parallel()

	page := newPage()
	page.AddBlock("saq-block-c", false)
	_ = page.Click("saq-a-yes")
	b := &stubSwitch{}
	c := &stubSwitch{}
	answers := func() map[string]string {
		out := map[string]string{}
		if !b.disabled {
			out["b"] = "x"
		}
		return out
	}

	r := New(page, []Descriptor{
		{Block: "saq-block-c", Rule: `b == "x"`, Questions: []string{"c"}},
		{Block: "saq-block-b", Input: "saq-a-yes", Questions: []string{"b"}},
	}, map[string]Switch{"b": b, "c": c}, WithAnswers(answers))

	r.Resolve()
	if b.disabled || c.disabled {
		t.Fatalf("expected b and c active, got b=%v c=%v", !b.disabled, !c.disabled)
	}

	_ = page.Click("saq-a-no")
	r.Resolve()
	if !b.disabled || !c.disabled || page.Visible("saq-block-c") {
		t.Fatalf("expected a single resolve to deactivate b and c, got b=%v c=%v", !b.disabled, !c.disabled)
	}

	settled := len(page.Changes())
	r.Resolve()
	if got := len(page.Changes()); got != settled {
		t.Fatalf("expected no transitions once settled, got %d new", got-settled)
	}

	want := []memhost.Change{
		{Block: "saq-block-c", Visible: true, Transition: host.Instant},
		{Block: "saq-block-b", Visible: true, Transition: host.Instant},
		{Block: "saq-block-c", Visible: false, Transition: host.Animated},
		{Block: "saq-block-b", Visible: false, Transition: host.Animated},
	}
	if diff := cmp.Diff(want, page.Changes()); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}
