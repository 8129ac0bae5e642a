// Package tui runs a survey session in the terminal. Questions are prompted
// in definition order; answers are applied to an in-memory page so the
// session's presenters, dependency resolver and submit controller behave as
// they would in a browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-saq/pkg/definition"
	"github.com/goliatone/go-saq/pkg/host"
	"github.com/goliatone/go-saq/pkg/scoring"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/survey"
)

const skipLabel = "(skip)"

// Page is the simulated page the runner answers on. memhost.Page satisfies
// it.
type Page interface {
	host.Host
	Click(id string) error
	Choose(id, value string) error
	Type(id, value string) error
	Visible(blockID string) bool
}

// Runner prompts for answers and submits them.
type Runner struct {
	driver    PromptDriver
	out       io.Writer
	theme     Theme
	bulk      string
	intent    submit.Intent
	maxRounds int
	multiline bool
	logger    *slog.Logger
	strip     *bluemonday.Policy
}

// New constructs a runner with defaults (survey driver, continue intent,
// three rounds).
func New(options ...Option) *Runner {
	r := &Runner{
		intent:    submit.IntentContinue,
		maxRounds: 3,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		strip:     bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	return r
}

// Run starts sess, prompts every visible question and submits. Questions
// that fail validation are asked again, up to the configured number of
// rounds.
func (r *Runner) Run(ctx context.Context, sess *survey.Session, page Page) (submit.Result, error) {
	if ctx == nil {
		return submit.Result{}, errors.New("tui: context is required")
	}
	if sess == nil || page == nil {
		return submit.Result{}, errors.New("tui: session and page are required")
	}
	def := sess.Definition()

	if def.Title != "" {
		r.info(ctx, def.Title)
	}
	if desc := r.plain(def.Description); desc != "" {
		r.info(ctx, desc)
	}

	sess.Start()
	if err := r.offerBulk(ctx, sess); err != nil {
		return submit.Result{}, err
	}

	pending := append([]definition.Question(nil), def.Questions...)
	for round := 0; round < r.maxRounds; round++ {
		for _, q := range pending {
			if err := ctx.Err(); err != nil {
				return submit.Result{}, err
			}
			if !page.Visible(q.BlockID()) {
				continue
			}
			if err := r.ask(ctx, sess, page, q); err != nil {
				return submit.Result{}, err
			}
		}

		result, err := sess.Submit(ctx, r.intent)
		if err != nil {
			r.fail(ctx, err.Error())
			return result, err
		}
		switch result.Status {
		case submit.StatusSent:
			r.info(ctx, "Answers submitted.")
			r.reportScore(ctx, sess.Score())
			return result, nil
		case submit.StatusIgnored:
			return result, nil
		}

		pending = pending[:0]
		for _, failure := range sess.Registry().Failures() {
			q, ok := def.Question(failure.Slug)
			if !ok || !page.Visible(q.BlockID()) {
				continue
			}
			r.fail(ctx, fmt.Sprintf("%s: %s", label(q), failure.Message))
			pending = append(pending, q)
		}
		r.logger.Debug("validation failed", slog.Int("round", round+1), slog.Int("pending", len(pending)))
	}
	return submit.Result{Status: submit.StatusBlocked}, ErrIncomplete
}

func (r *Runner) offerBulk(ctx context.Context, sess *survey.Session) error {
	if r.bulk == "" {
		return nil
	}
	ok, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: fmt.Sprintf("Answer %q to every question offering it?", r.bulk),
	})
	if err != nil {
		return err
	}
	if ok {
		n := sess.MarkAnswers(r.bulk)
		r.info(ctx, fmt.Sprintf("Marked %d questions.", n))
	}
	return nil
}

func (r *Runner) ask(ctx context.Context, sess *survey.Session, page Page, q definition.Question) error {
	var err error
	switch q.Kind {
	case definition.KindSingleChoice:
		err = r.askSingle(ctx, sess, page, q)
	case definition.KindMultiChoice:
		err = r.askMulti(ctx, page, q)
	case definition.KindDropDown, definition.KindGroupedDropDown:
		err = r.askDropDown(ctx, sess, page, q)
	case definition.KindFreeText:
		err = r.askText(ctx, page, q)
	default:
		r.logger.Warn("unsupported question kind", slog.String("slug", q.Slug), slog.String("kind", q.Kind))
		return nil
	}
	if err != nil {
		return err
	}
	return sess.InputChanged(q.Slug)
}

// askSingle offers skip only while the question is unanswered: a checked
// radio cannot be cleared.
func (r *Runner) askSingle(ctx context.Context, sess *survey.Session, page Page, q definition.Question) error {
	value := current(sess, q.Slug)
	opt, ok, err := r.pick(ctx, q, value, q.Optional && value == "")
	if err != nil || !ok {
		return err
	}
	return page.Click(q.InputID(opt))
}

func (r *Runner) askDropDown(ctx context.Context, sess *survey.Session, page Page, q definition.Question) error {
	opt, ok, err := r.pick(ctx, q, current(sess, q.Slug), q.Optional)
	if err != nil {
		return err
	}
	if !ok {
		return page.Choose(q.WidgetID(), "")
	}
	return page.Choose(q.WidgetID(), opt.Value)
}

// pick prompts a single selection. ok is false when the question was
// skipped.
func (r *Runner) pick(ctx context.Context, q definition.Question, value string, skippable bool) (definition.Option, bool, error) {
	cfg := SelectConfig{
		Message: label(q),
		Options: optionLabels(q),
		Groups:  optionGroups(q),
		Help:    r.plain(q.HelpText),
	}
	if skippable {
		cfg.Skip = skipLabel
	}
	cfg.DefaultIndex = -1
	for i, opt := range q.Options {
		if opt.Value == value {
			cfg.DefaultIndex = i
		}
	}

	for {
		idx, err := r.driver.Select(ctx, cfg)
		if err != nil {
			return definition.Option{}, false, err
		}
		if idx >= 0 && idx < len(q.Options) {
			return q.Options[idx], true, nil
		}
		if skippable && idx == len(q.Options) {
			return definition.Option{}, false, nil
		}
		r.fail(ctx, fmt.Sprintf("Invalid %s selection", q.Slug))
	}
}

func (r *Runner) askMulti(ctx context.Context, page Page, q definition.Question) error {
	var defaults []int
	for i, opt := range q.Options {
		if page.Checked(q.InputID(opt)) {
			defaults = append(defaults, i)
		}
	}
	picked, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  label(q),
		Options:  optionLabels(q),
		Groups:   optionGroups(q),
		Defaults: defaults,
		Help:     r.plain(q.HelpText),
	})
	if err != nil {
		return err
	}

	want := make(map[int]bool, len(picked))
	for _, idx := range picked {
		want[idx] = true
	}
	for i, opt := range q.Options {
		input := q.InputID(opt)
		if page.Checked(input) == want[i] {
			continue
		}
		if err := page.Click(input); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) askText(ctx context.Context, page Page, q definition.Question) error {
	var (
		text string
		err  error
	)
	if r.multiline {
		text, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: label(q),
			Default: page.Text(q.WidgetID()),
			Help:    r.plain(q.HelpText),
		})
	} else {
		text, err = r.driver.Input(ctx, InputConfig{
			Message: label(q),
			Default: page.Text(q.WidgetID()),
			Help:    r.plain(q.HelpText),
		})
	}
	if err != nil {
		return err
	}
	return page.Type(q.WidgetID(), text)
}

func (r *Runner) reportScore(ctx context.Context, report scoring.Report) {
	if !report.Scored() {
		return
	}
	r.info(ctx, fmt.Sprintf("Score: %d/%d (%d%%)", report.Overall.Points, report.Overall.Max, report.Overall.Percent()))
	for _, sec := range report.Sections {
		r.info(ctx, fmt.Sprintf("  %s: %d/%d (%d%%)", sec.Label, sec.Score.Points, sec.Score.Max, sec.Score.Percent()))
	}
}

func (r *Runner) info(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Runner) fail(ctx context.Context, msg string) {
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

// plain strips markup from help text for terminal display.
func (r *Runner) plain(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(r.strip.Sanitize(raw)))
}

func current(sess *survey.Session, slug string) string {
	q, ok := sess.Registry().Get(slug)
	if !ok {
		return ""
	}
	return q.Value().String()
}

func label(q definition.Question) string {
	if q.Label != "" {
		return q.Label
	}
	return q.Slug
}

func optionLabels(q definition.Question) []string {
	out := make([]string, len(q.Options))
	for i, opt := range q.Options {
		text := opt.Label
		if text == "" {
			text = opt.Value
		}
		out[i] = text
	}
	return out
}

func optionGroups(q definition.Question) []string {
	if q.Kind != definition.KindGroupedDropDown {
		return nil
	}
	out := make([]string, len(q.Options))
	for i, opt := range q.Options {
		out[i] = opt.Group
	}
	return out
}
