// Package visibility defines how dependency rules are evaluated against the
// live state of a questionnaire.
package visibility

// Evaluator decides whether a dependent block should be active given a rule
// string and the current answers.
type Evaluator interface {
	Eval(blockID, rule string, ctx Context) (bool, error)
}

// Context carries the inputs of a rule evaluation. Answers holds the
// serialised answers of the currently enabled questions keyed by slug;
// Checked queries the host for the state of an individual input.
type Context struct {
	Answers map[string]string
	Checked func(inputID string) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(blockID, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(blockID, rule string, ctx Context) (bool, error) {
	return fn(blockID, rule, ctx)
}
