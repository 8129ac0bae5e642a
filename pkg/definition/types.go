package definition

import "strings"

// Built-in question kinds. Presenter registries may add more.
const (
	KindSingleChoice    = "single"
	KindMultiChoice     = "multi"
	KindDropDown        = "dropdown"
	KindGroupedDropDown = "grouped-dropdown"
	KindFreeText        = "freetext"
)

// Survey is one questionnaire page.
type Survey struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title,omitempty" yaml:"title,omitempty"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Submit      SubmitConfig `json:"submit" yaml:"submit"`
	Questions   []Question   `json:"questions" yaml:"questions"`
	// Sections lists the tag aggregates reported after submission.
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`
	Source   string    `json:"-" yaml:"-"`
}

// Section is a labelled score aggregate over the questions carrying Tag.
type Section struct {
	Tag   string `json:"tag" yaml:"tag"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// SubmitConfig describes where answers go and where the user lands next.
type SubmitConfig struct {
	URL          string `json:"url" yaml:"url"`
	NextURL      string `json:"nextUrl,omitempty" yaml:"nextUrl,omitempty"`
	EndURL       string `json:"endUrl,omitempty" yaml:"endUrl,omitempty"`
	BackURL      string `json:"backUrl,omitempty" yaml:"backUrl,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
	// ExtraBlock names the secondary form block merged into the payload.
	ExtraBlock string `json:"extraBlock,omitempty" yaml:"extraBlock,omitempty"`
	// NavAnchor is where the bulk-answer helper scrolls to.
	NavAnchor string `json:"navAnchor,omitempty" yaml:"navAnchor,omitempty"`
}

// Question describes one answer slot.
type Question struct {
	Slug      string      `json:"slug" yaml:"slug"`
	Kind      string      `json:"kind" yaml:"kind"`
	Label     string      `json:"label,omitempty" yaml:"label,omitempty"`
	HelpText  string      `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Optional  bool        `json:"optional,omitempty" yaml:"optional,omitempty"`
	Widget    string      `json:"widget,omitempty" yaml:"widget,omitempty"`
	Block     string      `json:"block,omitempty" yaml:"block,omitempty"`
	Options   []Option    `json:"options,omitempty" yaml:"options,omitempty"`
	DependsOn *Dependency `json:"dependsOn,omitempty" yaml:"dependsOn,omitempty"`
	Tags      []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Option is one possible answer of a choice question.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
	Input string `json:"input,omitempty" yaml:"input,omitempty"`
	Score int    `json:"score,omitempty" yaml:"score,omitempty"`
}

// Dependency gates a question on another question's answer. Either
// Question+Answer or Input names the controlling input; Rule adds an answer
// expression that must also hold.
type Dependency struct {
	Question string `json:"question,omitempty" yaml:"question,omitempty"`
	Answer   string `json:"answer,omitempty" yaml:"answer,omitempty"`
	Input    string `json:"input,omitempty" yaml:"input,omitempty"`
	Rule     string `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// WidgetID is the identifier of the question's drop-down or text widget.
func (q Question) WidgetID() string {
	if q.Widget != "" {
		return q.Widget
	}
	return "saq-" + q.Slug
}

// BlockID is the identifier of the block wrapping the question.
func (q Question) BlockID() string {
	if q.Block != "" {
		return q.Block
	}
	return "saq-block-" + q.Slug
}

// InputID is the identifier of the input rendering opt.
func (q Question) InputID(opt Option) string {
	if opt.Input != "" {
		return opt.Input
	}
	return InputID(q.Slug, opt.Value)
}

// Option looks up an answer option by value.
func (q Question) Option(value string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Scored reports whether any option of a choice question carries points.
func (q Question) Scored() bool {
	if !q.IsChoice() {
		return false
	}
	for _, opt := range q.Options {
		if opt.Score != 0 {
			return true
		}
	}
	return false
}

// HasTag reports whether q is tagged with tag.
func (q Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsChoice reports whether the kind is answered by picking options.
func (q Question) IsChoice() bool {
	switch q.Kind {
	case KindSingleChoice, KindMultiChoice, KindDropDown, KindGroupedDropDown:
		return true
	}
	return false
}

// InputID builds the conventional input identifier for an answer.
func InputID(questionSlug, answer string) string {
	return "saq-" + strings.TrimSpace(questionSlug) + "-" + strings.TrimSpace(answer)
}

// Question returns the question with slug.
func (s Survey) Question(slug string) (Question, bool) {
	for _, q := range s.Questions {
		if q.Slug == slug {
			return q, true
		}
	}
	return Question{}, false
}

// ControllingInput resolves the input a dependency is keyed on. Dependencies
// on unknown questions still resolve to the conventional identifier, which a
// page will not contain; such blocks stay inactive.
func (s Survey) ControllingInput(dep Dependency) string {
	if dep.Input != "" {
		return dep.Input
	}
	if dep.Question == "" {
		return ""
	}
	if target, ok := s.Question(dep.Question); ok {
		if opt, ok := target.Option(dep.Answer); ok {
			return target.InputID(opt)
		}
	}
	return InputID(dep.Question, dep.Answer)
}
