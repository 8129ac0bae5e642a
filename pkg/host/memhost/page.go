// Package memhost implements host.Host on an in-memory page model. It backs
// the terminal front-end and doubles as the fake host in tests: every command
// the session issues is recorded and can be inspected afterwards.
package memhost

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-saq/pkg/host"
)

// Input is a radio or checkbox widget. Radios share a non-empty Group.
type Input struct {
	ID      string
	Group   string
	Value   string
	Checked bool
}

// Change records a block visibility command.
type Change struct {
	Block      string
	Visible    bool
	Transition host.Transition
}

// Page is an in-memory host. The zero value is not usable; call New.
type Page struct {
	mu sync.Mutex

	inputs   map[string]*Input
	selects  map[string]string
	texts    map[string]string
	disabled map[string]bool
	visible  map[string]bool
	errors   map[string]string
	forms    map[string][]host.Field
	token    string
	progress bool

	changes     []Change
	alerts      []string
	navigations []string
	scrolls     []string
}

var _ host.Host = (*Page)(nil)

// New returns an empty page.
func New() *Page {
	return &Page{
		inputs:   make(map[string]*Input),
		selects:  make(map[string]string),
		texts:    make(map[string]string),
		disabled: make(map[string]bool),
		visible:  make(map[string]bool),
		errors:   make(map[string]string),
		forms:    make(map[string][]host.Field),
	}
}

// AddRadio places a radio input in group.
func (p *Page) AddRadio(group, id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs[id] = &Input{ID: id, Group: group, Value: value}
}

// AddCheckbox places a checkbox input.
func (p *Page) AddCheckbox(id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.inputs[id] = &Input{ID: id, Value: value}
}

// AddSelect places a drop-down widget with an initial value.
func (p *Page) AddSelect(id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selects[id] = value
}

// AddText places a free-text widget with initial content.
func (p *Page) AddText(id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.texts[id] = value
}

// AddBlock registers a block with its server-rendered visibility.
func (p *Page) AddBlock(id string, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[id] = visible
}

// Remove drops an input from the page.
func (p *Page) Remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inputs, id)
}

// SetFields replaces the fields of a secondary form block.
func (p *Page) SetFields(blockID string, fields ...host.Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms[blockID] = append([]host.Field(nil), fields...)
}

// SetToken stores the anti-forgery token.
func (p *Page) SetToken(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
}

// Click simulates a user click: radios become the only checked input of
// their group, checkboxes toggle.
func (p *Page) Click(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, ok := p.inputs[id]
	if !ok {
		return fmt.Errorf("memhost: unknown input %q", id)
	}
	if in.Group == "" {
		in.Checked = !in.Checked
		return nil
	}
	p.checkRadio(in)
	return nil
}

// Choose sets a drop-down value.
func (p *Page) Choose(id, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.selects[id]; !ok {
		return fmt.Errorf("memhost: unknown select %q", id)
	}
	p.selects[id] = value
	return nil
}

// Type replaces the content of a free-text widget.
func (p *Page) Type(id, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.texts[id]; !ok {
		return fmt.Errorf("memhost: unknown text widget %q", id)
	}
	p.texts[id] = value
	return nil
}

func (p *Page) checkRadio(in *Input) {
	for _, other := range p.inputs {
		if other.Group == in.Group {
			other.Checked = false
		}
	}
	in.Checked = true
}

// Exists implements host.Inputs.
func (p *Page) Exists(inputID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.inputs[inputID]
	return ok
}

// Checked implements host.Inputs.
func (p *Page) Checked(inputID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, ok := p.inputs[inputID]
	return ok && in.Checked
}

// Selected implements host.Inputs.
func (p *Page) Selected(widgetID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.selects[widgetID]
}

// Text implements host.Inputs.
func (p *Page) Text(widgetID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.texts[widgetID]
}

// Check implements host.Inputs. Unlike Click it never unchecks a checkbox.
func (p *Page) Check(inputID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	in, ok := p.inputs[inputID]
	if !ok {
		return
	}
	if in.Group == "" {
		in.Checked = true
		return
	}
	p.checkRadio(in)
}

// SetDisabled implements host.Inputs.
func (p *Page) SetDisabled(ids []string, disabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range ids {
		if disabled {
			p.disabled[id] = true
			continue
		}
		delete(p.disabled, id)
	}
}

// Show implements host.Blocks.
func (p *Page) Show(blockID string, t host.Transition) {
	p.setVisible(blockID, true, t)
}

// Hide implements host.Blocks.
func (p *Page) Hide(blockID string, t host.Transition) {
	p.setVisible(blockID, false, t)
}

func (p *Page) setVisible(blockID string, visible bool, t host.Transition) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible[blockID] = visible
	p.changes = append(p.changes, Change{Block: blockID, Visible: visible, Transition: t})
}

// ShowError implements host.Feedback.
func (p *Page) ShowError(slug, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errors[slug] = message
}

// ClearError implements host.Feedback.
func (p *Page) ClearError(slug string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.errors, slug)
}

// SetProgress implements host.Feedback.
func (p *Page) SetProgress(visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.progress = visible
}

// Alert implements host.Feedback.
func (p *Page) Alert(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, message)
}

// Navigate implements host.Navigator.
func (p *Page) Navigate(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigations = append(p.navigations, url)
}

// ScrollTo implements host.Navigator.
func (p *Page) ScrollTo(anchor string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scrolls = append(p.scrolls, anchor)
}

// Fields implements host.FormSource.
func (p *Page) Fields(blockID string) []host.Field {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]host.Field(nil), p.forms[blockID]...)
}

// Token implements host.FormSource.
func (p *Page) Token() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

// Visible reports the current visibility of a block.
func (p *Page) Visible(blockID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible[blockID]
}

// IsDisabled reports whether a widget is currently disabled.
func (p *Page) IsDisabled(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.disabled[id]
}

// DisabledCount reports how many widgets are disabled.
func (p *Page) DisabledCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.disabled)
}

// Error returns the message shown for slug.
func (p *Page) Error(slug string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg, ok := p.errors[slug]
	return msg, ok
}

// Progress reports whether the progress indicator is visible.
func (p *Page) Progress() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Changes returns every visibility command received so far.
func (p *Page) Changes() []Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Change(nil), p.changes...)
}

// Alerts returns the blocking notices shown so far.
func (p *Page) Alerts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.alerts...)
}

// Navigations returns the URLs navigated to so far.
func (p *Page) Navigations() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.navigations...)
}

// Scrolls returns the anchors scrolled to so far.
func (p *Page) Scrolls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.scrolls...)
}
