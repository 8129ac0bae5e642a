package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-saq/pkg/host/memhost"
	"github.com/goliatone/go-saq/pkg/question"
	"github.com/goliatone/go-saq/pkg/submit"
	"github.com/goliatone/go-saq/pkg/survey"
	"github.com/goliatone/go-saq/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	textAreas    []string
	infoMessages []string
	selectMsgs   []string
	selectCfgs   []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	textPos      int
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	s.selectMsgs = append(s.selectMsgs, cfg.Message)
	s.selectCfgs = append(s.selectCfgs, cfg)
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, _ SelectConfig) ([]int, error) {
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

const surveyYAML = `
id: health
title: Health check
submit:
  url: /saq/submit/
  nextUrl: /next/
questions:
  - slug: smoker
    kind: single
    label: Do you smoke?
    options:
      - value: "yes"
      - value: "no"
  - slug: per-day
    kind: freetext
    label: How many per day?
    dependsOn:
      question: smoker
      answer: "yes"
  - slug: sports
    kind: multi
    optional: true
    options:
      - value: run
      - value: swim
      - value: ride
  - slug: region
    kind: grouped-dropdown
    options:
      - value: uk
        group: Europe
      - value: us
        group: Americas
`

func newFixture(t *testing.T, transport submit.Transport) (*survey.Session, *memhost.Page) {
	t.Helper()
	def := testsupport.MustParseSurvey(t, surveyYAML)
	page := memhost.FromSurvey(def)
	sess, err := survey.New(def, page, survey.WithTransport(transport))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)
	return sess, page
}

func TestRunPromptsVisibleQuestions(t *testing.T) {
	t.Parallel()

	transport := &testsupport.Transport{}
	sess, page := newFixture(t, transport)
	driver := &stubDriver{
		selectIdx: []int{0, 1},
		inputs:    []string{"5"},
		multiIdx:  [][]int{{0, 2}},
	}

	result, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != submit.StatusSent {
		t.Fatalf("expected sent, got %s", result.Status)
	}

	want := question.Payload{
		{Name: "smoker", Value: "yes"},
		{Name: "per-day", Value: "5"},
		{Name: "sports", Value: "run,ride"},
		{Name: "region", Value: "us"},
	}
	if diff := cmp.Diff(want, transport.LastPayload(t)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/next/"}, page.Navigations()); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}
	region := driver.selectCfgs[1]
	if diff := cmp.Diff([]string{"Europe: uk", "Americas: us"}, region.Labels()); diff != "" {
		t.Fatalf("grouped labels mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSkipsHiddenDependents(t *testing.T) {
	t.Parallel()

	transport := &testsupport.Transport{}
	sess, page := newFixture(t, transport)
	driver := &stubDriver{
		selectIdx: []int{1, 0},
		multiIdx:  [][]int{nil},
	}

	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page); err != nil {
		t.Fatalf("run: %v", err)
	}
	if driver.inputPos != 0 {
		t.Fatalf("expected hidden free-text question not to be prompted")
	}
	want := question.Payload{
		{Name: "smoker", Value: "no"},
		{Name: "region", Value: "uk"},
	}
	if diff := cmp.Diff(want, transport.LastPayload(t)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestRunAsksAgainAfterValidationFailure(t *testing.T) {
	t.Parallel()

	transport := &testsupport.Transport{}
	sess, page := newFixture(t, transport)
	driver := &stubDriver{
		selectIdx: []int{0, 0},
		inputs:    []string{"", "3"},
		multiIdx:  [][]int{nil},
	}

	result, err := New(WithPromptDriver(driver), WithTheme(Theme{ErrorPrefix: "! "})).Run(context.Background(), sess, page)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != submit.StatusSent {
		t.Fatalf("expected sent, got %s", result.Status)
	}
	if driver.inputPos != 2 || driver.selectPos != 2 {
		t.Fatalf("expected only the failing question re-prompted, inputs=%d selects=%d", driver.inputPos, driver.selectPos)
	}
	wantMsg := "! How many per day?: " + question.RequiredMessage
	found := false
	for _, msg := range driver.infoMessages {
		if msg == wantMsg {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %q in %v", wantMsg, driver.infoMessages)
	}
}

func TestRunGivesUpAfterMaxRounds(t *testing.T) {
	t.Parallel()

	sess, page := newFixture(t, &testsupport.Transport{})
	driver := &stubDriver{
		selectIdx: []int{0, 0},
		inputs:    []string{"", ""},
		multiIdx:  [][]int{nil},
	}

	_, err := New(WithPromptDriver(driver), WithMaxRounds(2)).Run(context.Background(), sess, page)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestRunBulkAnswer(t *testing.T) {
	t.Parallel()

	transport := &testsupport.Transport{}
	sess, page := newFixture(t, transport)
	driver := &stubDriver{
		confirm:   []bool{true},
		selectIdx: []int{0, 0},
		inputs:    []string{"1"},
		multiIdx:  [][]int{nil},
	}

	if _, err := New(WithPromptDriver(driver), WithBulkAnswer("yes")).Run(context.Background(), sess, page); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !page.Checked("saq-smoker-yes") {
		t.Fatalf("expected bulk answer applied")
	}
	if driver.infoMessages[1] != "Marked 1 questions." {
		t.Fatalf("unexpected messages %v", driver.infoMessages)
	}
}

func TestRunTransportFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("offline")
	transport := &testsupport.Transport{}
	transport.Fail(boom)
	sess, page := newFixture(t, transport)
	driver := &stubDriver{
		selectIdx: []int{1, 0},
		multiIdx:  [][]int{nil},
	}

	result, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page)
	if !errors.Is(err, submit.ErrSubmitFailed) || result.Status != submit.StatusFailed {
		t.Fatalf("expected failed submission, got %v / %v", result.Status, err)
	}
	if diff := cmp.Diff([]string{submit.DefaultErrorMessage}, page.Alerts()); diff != "" {
		t.Fatalf("alert mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPropagatesAbort(t *testing.T) {
	t.Parallel()

	sess, page := newFixture(t, &testsupport.Transport{})
	driver := &abortDriver{}

	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

type abortDriver struct{ stubDriver }

const optionalYAML = `
id: extras
submit:
  url: /saq/submit/
questions:
  - slug: newsletter
    kind: single
    optional: true
    options:
      - value: "yes"
      - value: "no"
  - slug: colour
    kind: single
    optional: true
    options:
      - value: red
      - value: blue
`

func TestRunOffersSkipOnlyWhileUnanswered(t *testing.T) {
	t.Parallel()

	def := testsupport.MustParseSurvey(t, optionalYAML)
	page := memhost.FromSurvey(def)
	transport := &testsupport.Transport{}
	sess, err := survey.New(def, page, survey.WithTransport(transport))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)

	driver := &stubDriver{
		confirm:   []bool{true},
		selectIdx: []int{0, 2},
	}
	if _, err := New(WithPromptDriver(driver), WithBulkAnswer("yes")).Run(context.Background(), sess, page); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := driver.selectCfgs[0].Skip; got != "" {
		t.Fatalf("expected no skip for an answered question, got %q", got)
	}
	if got := driver.selectCfgs[1].Skip; got != skipLabel {
		t.Fatalf("expected skip offered for an unanswered question, got %q", got)
	}
	want := question.Payload{{Name: "newsletter", Value: "yes"}}
	if diff := cmp.Diff(want, transport.LastPayload(t)); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

// silentPage drops inline errors so only the session knows what failed.
type silentPage struct{ *memhost.Page }

func (silentPage) ShowError(string, string) {}

func TestRunAsksAgainWithoutInlineErrors(t *testing.T) {
	t.Parallel()

	def := testsupport.MustParseSurvey(t, surveyYAML)
	page := silentPage{memhost.FromSurvey(def)}
	transport := &testsupport.Transport{}
	sess, err := survey.New(def, page, survey.WithTransport(transport))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)
	driver := &stubDriver{
		selectIdx: []int{0, 0},
		inputs:    []string{"", "7"},
		multiIdx:  [][]int{nil},
	}

	result, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Status != submit.StatusSent || driver.inputPos != 2 {
		t.Fatalf("expected per-day asked twice and sent, got %s after %d inputs", result.Status, driver.inputPos)
	}
	if got, _ := transport.LastPayload(t).Get("per-day"); got != "7" {
		t.Fatalf("expected per-day 7, got %q", got)
	}
	if _, shown := page.Error("per-day"); shown {
		t.Fatalf("expected no inline error recorded on the page")
	}
}

func (a *abortDriver) Select(context.Context, SelectConfig) (int, error) { return 0, ErrAborted }

func TestPlainStripsMarkup(t *testing.T) {
	t.Parallel()

	r := New(WithPromptDriver(&stubDriver{}))
	if got := r.plain("<p>Count <b>all</b> &amp; more</p>"); got != "Count all & more" {
		t.Fatalf("unexpected plain text %q", got)
	}
}

const scoredYAML = `
id: scored
submit:
  url: /saq/submit/
sections:
  - tag: lungs
    label: Lungs
questions:
  - slug: smoker
    kind: single
    tags: [lungs]
    options:
      - {value: "yes", score: 0}
      - {value: "no", score: 4}
  - slug: sports
    kind: multi
    options:
      - {value: run, score: 3}
      - {value: swim, score: 3}
`

func TestRunReportsScoreAfterSubmission(t *testing.T) {
	t.Parallel()

	def := testsupport.MustParseSurvey(t, scoredYAML)
	page := memhost.FromSurvey(def)
	sess, err := survey.New(def, page, survey.WithTransport(&testsupport.Transport{}))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	t.Cleanup(sess.Close)

	driver := &stubDriver{
		selectIdx: []int{1},
		multiIdx:  [][]int{{0}},
	}
	if _, err := New(WithPromptDriver(driver)).Run(context.Background(), sess, page); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{
		"Answers submitted.",
		"Score: 7/10 (70%)",
		"  Lungs: 4/4 (100%)",
	}
	if diff := cmp.Diff(want, driver.infoMessages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}
