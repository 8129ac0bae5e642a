package tui

import (
	"io"
	"log/slog"

	"github.com/goliatone/go-saq/pkg/submit"
)

// Theme captures optional message prefixes the runner applies when printing.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects the default driver's informational output.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithBulkAnswer offers to pre-select value on every single-choice question
// before prompting.
func WithBulkAnswer(value string) Option {
	return func(r *Runner) {
		r.bulk = value
	}
}

// WithIntent selects where a successful submission leads.
func WithIntent(intent submit.Intent) Option {
	return func(r *Runner) {
		if intent != "" {
			r.intent = intent
		}
	}
}

// WithMaxRounds bounds how often unanswered questions are asked again.
func WithMaxRounds(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxRounds = n
		}
	}
}

// WithMultilineText prompts free-text questions with an editor-style
// multi-line prompt.
func WithMultilineText(enabled bool) Option {
	return func(r *Runner) {
		r.multiline = enabled
	}
}

// WithLogger sets the runner logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
