package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-saq/pkg/definition"
	"github.com/goliatone/go-saq/pkg/question"
	"github.com/goliatone/go-saq/pkg/submit"
)

// LoadSurvey reads a definition fixture, failing the test on error.
func LoadSurvey(t *testing.T, path string) definition.Survey {
	t.Helper()

	def, err := LoadSurveyFromPath(path)
	if err != nil {
		t.Fatalf("load survey: %v", err)
	}
	return def
}

// LoadSurveyFromPath returns a parsed definition without requiring
// testing.T.
func LoadSurveyFromPath(path string) (definition.Survey, error) {
	if path == "" {
		return definition.Survey{}, errors.New("testsupport: survey path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return definition.Survey{}, fmt.Errorf("testsupport: read survey: %w", err)
	}
	return definition.Parse(data, path)
}

// MustParseSurvey parses an inline JSON or YAML definition.
func MustParseSurvey(t *testing.T, raw string) definition.Survey {
	t.Helper()

	def, err := definition.Parse([]byte(raw), t.Name())
	if err != nil {
		t.Fatalf("parse survey: %v", err)
	}
	return def
}

// Transport records submissions and answers with a configurable error.
type Transport struct {
	mu       sync.Mutex
	requests []submit.Request
	err      error
}

var _ submit.Transport = (*Transport)(nil)

// Send implements submit.Transport.
func (t *Transport) Send(_ context.Context, req submit.Request) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.requests = append(t.requests, req)
	return t.err
}

// Fail makes later sends return err; nil restores success.
func (t *Transport) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}

// Requests returns the recorded submissions.
func (t *Transport) Requests() []submit.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]submit.Request(nil), t.requests...)
}

// LastPayload returns the payload of the latest submission, failing the test
// when nothing was sent.
func (t *Transport) LastPayload(tb testing.TB) question.Payload {
	tb.Helper()
	reqs := t.Requests()
	if len(reqs) == 0 {
		tb.Fatalf("no submission recorded")
	}
	return reqs[len(reqs)-1].Payload
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written.
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadPayloadGolden reads a JSON golden holding a list of
// {"Name", "Value"} fields.
func MustReadPayloadGolden(t *testing.T, path string) question.Payload {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	var out question.Payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// ComparePayload returns a diff string if the payloads differ.
func ComparePayload(want, got question.Payload) string {
	return cmp.Diff(want, got)
}
