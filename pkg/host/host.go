// Package host describes the rendering layer a questionnaire session drives.
// The session only queries widget state and issues commands; how blocks are
// animated, where errors appear or how navigation happens is up to the host.
package host

// Transition tells the host how to apply a visibility change.
type Transition int

const (
	// Instant applies the change without animation (initial state).
	Instant Transition = iota
	// Animated applies the change with the host's animation of choice.
	Animated
)

func (t Transition) String() string {
	if t == Animated {
		return "animated"
	}
	return "instant"
}

// Field is a name/value pair read from a form block on the page.
type Field struct {
	Name  string
	Value string
}

// Inputs exposes widget state and input-level commands.
type Inputs interface {
	// Exists reports whether an input with the identifier is on the page.
	Exists(inputID string) bool
	// Checked reports whether a radio/checkbox input is checked.
	Checked(inputID string) bool
	// Selected returns the current value of a drop-down widget.
	Selected(widgetID string) string
	// Text returns the current content of a free-text widget.
	Text(widgetID string) string
	// Check selects a radio/checkbox input as if the user clicked it.
	Check(inputID string)
	// SetDisabled disables or re-enables the given widgets.
	SetDisabled(ids []string, disabled bool)
}

// Blocks shows and hides dependent question blocks.
type Blocks interface {
	Show(blockID string, t Transition)
	Hide(blockID string, t Transition)
}

// Feedback surfaces validation and submission state to the user.
type Feedback interface {
	ShowError(slug, message string)
	ClearError(slug string)
	SetProgress(visible bool)
	// Alert shows a blocking notice.
	Alert(message string)
}

// Navigator moves the user around.
type Navigator interface {
	Navigate(url string)
	ScrollTo(anchor string)
}

// FormSource reads auxiliary form data from the page.
type FormSource interface {
	// Fields returns the name/value pairs of a secondary form block.
	Fields(blockID string) []Field
	// Token returns the anti-forgery token provided by the page.
	Token() string
}

// Host is the full rendering-layer contract.
type Host interface {
	Inputs
	Blocks
	Feedback
	Navigator
	FormSource
}
