package memhost

import "github.com/goliatone/go-saq/pkg/definition"

// FromSurvey lays out a page the way the server renders the survey: one
// block per question (dependent blocks start hidden), radios for
// single-choice questions, checkboxes for multi-choice, a select for
// drop-downs and a text widget for free text. Unknown kinds get no widgets.
func FromSurvey(s definition.Survey) *Page {
	page := New()
	gated := make(map[string]bool)
	for _, q := range s.Questions {
		if q.DependsOn != nil {
			gated[q.BlockID()] = true
		}
	}
	for _, q := range s.Questions {
		page.AddBlock(q.BlockID(), !gated[q.BlockID()])
		switch q.Kind {
		case definition.KindSingleChoice:
			for _, opt := range q.Options {
				page.AddRadio(q.Slug, q.InputID(opt), opt.Value)
			}
		case definition.KindMultiChoice:
			for _, opt := range q.Options {
				page.AddCheckbox(q.InputID(opt), opt.Value)
			}
		case definition.KindDropDown, definition.KindGroupedDropDown:
			page.AddSelect(q.WidgetID(), "")
		case definition.KindFreeText:
			page.AddText(q.WidgetID(), "")
		}
	}
	return page
}
