package question

import "strings"

// RequiredMessage is reported for required questions without an answer.
const RequiredMessage = "Please select an answer to this question."

// Kind identifies the widget family a question is answered with.
type Kind string

const (
	KindSingleChoice Kind = "single"
	KindMultiChoice  Kind = "multi"
	KindDropDown     Kind = "dropdown"
	KindFreeText     Kind = "freetext"
)

// Value is a question answer. The zero Value is unset, which is distinct from
// an explicitly empty string but treated the same by IsEmpty.
type Value struct {
	raw string
	set bool
}

// NewValue wraps a string answer.
func NewValue(raw string) Value {
	return Value{raw: raw, set: true}
}

// String returns the raw answer ("" when unset).
func (v Value) String() string {
	return v.raw
}

// IsSet reports whether a value was ever assigned.
func (v Value) IsSet() bool {
	return v.set
}

// List splits a comma-joined multi-choice answer. Empty values yield nil.
func (v Value) List() []string {
	if IsEmpty(v) {
		return nil
	}
	return strings.Split(v.raw, ",")
}

// IsEmpty is the single presence predicate used by validation and
// serialisation: unset and "" are empty, any other string (including "0") is
// not.
func IsEmpty(v Value) bool {
	return !v.set || v.raw == ""
}

// Question is one answer slot.
type Question struct {
	Slug     string
	Kind     Kind
	Optional bool

	value    Value
	disabled bool
}

// New constructs a question with an unset value.
func New(slug string, kind Kind, optional bool) *Question {
	return &Question{
		Slug:     strings.TrimSpace(slug),
		Kind:     kind,
		Optional: optional,
	}
}

// Value returns the current answer.
func (q *Question) Value() Value {
	return q.value
}

// SetValue replaces the current answer.
func (q *Question) SetValue(v Value) {
	q.value = v
}

// Disabled reports whether an unmet dependency excludes the question.
func (q *Question) Disabled() bool {
	return q.disabled
}

// SetDisabled toggles the dependency flag. The value is left untouched.
func (q *Question) SetDisabled(disabled bool) {
	q.disabled = disabled
}

// PostValidate returns the validation message and true when the question is
// required, active and unanswered.
func (q *Question) PostValidate() (string, bool) {
	if q.Optional || q.disabled || !IsEmpty(q.value) {
		return "", false
	}
	return RequiredMessage, true
}
