package presenter

import (
	"strings"

	"github.com/goliatone/go-saq/pkg/question"
)

// SingleChoice answers with the value of the one checked radio.
type SingleChoice struct {
	base
	choices []Choice
}

// NewSingleChoice builds a single-choice presenter.
func NewSingleChoice(cfg Config) (Presenter, error) {
	p := &SingleChoice{
		base:    newBase(cfg, question.KindSingleChoice, choiceInputs(cfg.Choices)),
		choices: append([]Choice(nil), cfg.Choices...),
	}
	p.bind()
	return p, nil
}

func (p *SingleChoice) Refresh() {
	for _, c := range p.choices {
		if p.host.Checked(c.Input) {
			p.q.SetValue(question.NewValue(c.Value))
			return
		}
	}
	p.q.SetValue(question.Value{})
}

func (p *SingleChoice) ChangeValue() {
	p.Refresh()
	p.notify()
}

// Offers returns the input rendering value, if the question has that option.
func (p *SingleChoice) Offers(value string) (string, bool) {
	for _, c := range p.choices {
		if c.Value == value {
			return c.Input, true
		}
	}
	return "", false
}

// MultiChoice answers with the comma-joined values of every checked box, in
// page order.
type MultiChoice struct {
	base
	choices []Choice
}

// NewMultiChoice builds a multi-choice presenter.
func NewMultiChoice(cfg Config) (Presenter, error) {
	p := &MultiChoice{
		base:    newBase(cfg, question.KindMultiChoice, choiceInputs(cfg.Choices)),
		choices: append([]Choice(nil), cfg.Choices...),
	}
	p.bind()
	return p, nil
}

func (p *MultiChoice) Refresh() {
	var checked []string
	for _, c := range p.choices {
		if p.host.Checked(c.Input) {
			checked = append(checked, c.Value)
		}
	}
	p.q.SetValue(question.NewValue(strings.Join(checked, ",")))
}

func (p *MultiChoice) ChangeValue() {
	p.Refresh()
	p.notify()
}

// DropDown answers with the current selection of a select widget.
type DropDown struct {
	base
	widget string
}

// NewDropDown builds a drop-down presenter.
func NewDropDown(cfg Config) (Presenter, error) {
	p := &DropDown{
		base:   newBase(cfg, question.KindDropDown, []string{cfg.Widget}),
		widget: cfg.Widget,
	}
	p.bind()
	return p, nil
}

func (p *DropDown) Refresh() {
	p.q.SetValue(question.NewValue(p.host.Selected(p.widget)))
}

func (p *DropDown) ChangeValue() {
	p.Refresh()
	p.notify()
}

// FreeText answers with the widget text, verbatim.
type FreeText struct {
	base
	widget string
}

// NewFreeText builds a free-text presenter.
func NewFreeText(cfg Config) (Presenter, error) {
	p := &FreeText{
		base:   newBase(cfg, question.KindFreeText, []string{cfg.Widget}),
		widget: cfg.Widget,
	}
	p.bind()
	return p, nil
}

func (p *FreeText) Refresh() {
	p.q.SetValue(question.NewValue(p.host.Text(p.widget)))
}

func (p *FreeText) ChangeValue() {
	p.Refresh()
	p.notify()
}
