// Package saq is the entry point for building self-assessment questionnaire
// sessions: load a survey definition, lay it out on a page and drive its
// answers, dependencies and submission.
package saq

import (
	"github.com/goliatone/go-saq/pkg/definition"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/host/memhost"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/survey"
)

// Survey aliases definition.Survey for callers that only use the root
// package.
type Survey = definition.Survey

// Session aliases survey.Session.
type Session = survey.Session

// Option aliases survey.Option.
type Option = survey.Option

// Intent aliases submit.Intent.
type Intent = submit.Intent

// Result aliases submit.Result.
type Result = submit.Result

const (
	IntentContinue = submit.IntentContinue
	IntentFinish   = submit.IntentFinish
)

// NewSession builds a page session for def on h.
func NewSession(def Survey, h host.Host, options ...Option) (*Session, error) {
	return survey.New(def, h, options...)
}

// NewPage lays def out on an in-memory page, ready to back a session.
func NewPage(def Survey) *memhost.Page {
	return memhost.FromSurvey(def)
}
